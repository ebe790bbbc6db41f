package geopoly

// maxSortLanes bounds the bottom-up merge sort's lane array. A fixed
// 50-lane array handles up to 2^50 elements; this is a deliberately
// stack-only sort kept as a fixed-size array rather than a generic
// container, because the tie-breaking rules (x for events; y then slope C
// for segments) are embedded directly in the merge comparators below
// (spec.md §4.F / §9).
const maxSortLanes = 50

// nilIdx marks an empty intrusive-list link. Event and segment arenas are
// preallocated once per overlap() call and never reallocated, so indices
// into them stay valid for the arena's whole lifetime.
const nilIdx = -1

// mergeEvents merges two event lists, already sorted ascending by x, into
// one sorted list linked through event.next. On an x tie, the right list's
// head is taken first — this matches the source sweep's merge exactly and
// must be preserved; the specific tie order does not affect correctness but
// the sweep's sort must be stable across repeated runs.
func (w *overlapWorkspace) mergeEvents(left, right int32) int32 {
	var head int32 = nilIdx
	tail := &head
	for left != nilIdx && right != nilIdx {
		if w.events[right].x <= w.events[left].x {
			*tail = right
			tail = &w.events[right].next
			right = w.events[right].next
		} else {
			*tail = left
			tail = &w.events[left].next
			left = w.events[left].next
		}
	}
	if right != nilIdx {
		*tail = right
	} else {
		*tail = left
	}
	return head
}

// sortEventsByX sorts all nEvent events in the workspace ascending by x
// using an iterative bottom-up merge sort over maxSortLanes lanes, and
// returns the head index of the resulting linked list.
func (w *overlapWorkspace) sortEventsByX() int32 {
	var lanes [maxSortLanes]int32
	for i := range lanes {
		lanes[i] = nilIdx
	}
	mx := 0
	for i := 0; i < w.nEvent; i++ {
		p := int32(i)
		w.events[p].next = nilIdx
		j := 0
		for j < mx && lanes[j] != nilIdx {
			p = w.mergeEvents(lanes[j], p)
			lanes[j] = nilIdx
			j++
		}
		lanes[j] = p
		if j >= mx {
			mx = j + 1
		}
	}
	var result int32 = nilIdx
	for i := 0; i < mx; i++ {
		result = w.mergeEvents(lanes[i], result)
	}
	return result
}

// mergeSegments merges two segment lists, already sorted by (y, then C
// ascending), into one sorted list linked through segment.next.
func (w *overlapWorkspace) mergeSegments(left, right int32) int32 {
	var head int32 = nilIdx
	tail := &head
	for left != nilIdx && right != nilIdx {
		r := w.segments[right].y - w.segments[left].y
		if r == 0 {
			r = w.segments[right].c - w.segments[left].c
		}
		if r < 0 {
			*tail = right
			tail = &w.segments[right].next
			right = w.segments[right].next
		} else {
			*tail = left
			tail = &w.segments[left].next
			left = w.segments[left].next
		}
	}
	if right != nilIdx {
		*tail = right
	} else {
		*tail = left
	}
	return head
}

// sortSegmentsByYAndC sorts the active-segment list (given by its head
// index) in order of increasing y and, on a tie, increasing slope C, using
// the same bottom-up merge strategy as sortEventsByX.
func (w *overlapWorkspace) sortSegmentsByYAndC(list int32) int32 {
	var lanes [maxSortLanes]int32
	for i := range lanes {
		lanes[i] = nilIdx
	}
	mx := 0
	for list != nilIdx {
		p := list
		list = w.segments[list].next
		w.segments[p].next = nilIdx
		j := 0
		for j < mx && lanes[j] != nilIdx {
			p = w.mergeSegments(lanes[j], p)
			lanes[j] = nilIdx
			j++
		}
		lanes[j] = p
		if j >= mx {
			mx = j + 1
		}
	}
	var result int32 = nilIdx
	for i := 0; i < mx; i++ {
		result = w.mergeSegments(lanes[i], result)
	}
	return result
}
