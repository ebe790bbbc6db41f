package geopoly

// ErrLocked is returned by (*Table).Update when an open cursor currently
// pins an R-tree node reference (spec.md §4.H/§7: a write attempted while a
// cursor holds a node is a retryable "locked" status, not a hard failure).
type ErrLocked struct{}

func (e *ErrLocked) Error() string { return "geopoly: table locked by an open cursor" }

// ErrBadShape is returned when a write's _shape argument does not decode to
// a valid polygon (spec.md §4.H/§7).
type ErrBadShape struct{}

func (e *ErrBadShape) Error() string { return "_shape does not contain a valid polygon" }
