package geopoly

import (
	"database/sql"
	"fmt"
	"strings"
)

// auxStore is the auxiliary-column persistence layer named in spec.md §4.H
// (zReadAuxSql/pReadRowid/pWriteAux): one real table per virtual-table
// instance holding the user columns and the _shape blob, keyed by rowid,
// with its read/write/delete statements prepared once and cached for the
// life of the Table (spec.md §5: "Prepared statements cached per
// virtual-table instance — single-threaded use only").
type auxStore struct {
	db      *sql.DB
	table   string
	columns []string

	readStmt   *sql.Stmt
	writeStmt  *sql.Stmt
	deleteStmt *sql.Stmt
}

func newAuxStore(db *sql.DB, name string, columns []string) (*auxStore, error) {
	table := name + "_aux"

	var create strings.Builder
	fmt.Fprintf(&create, "CREATE TABLE IF NOT EXISTS %s (rowid INTEGER PRIMARY KEY", table)
	for _, c := range columns {
		fmt.Fprintf(&create, ", %s", c)
	}
	create.WriteString(", _shape BLOB)")
	if _, err := db.Exec(create.String()); err != nil {
		return nil, fmt.Errorf("create aux table %s: %w", table, err)
	}

	selectCols := append(append([]string{}, columns...), "_shape")

	readSQL := fmt.Sprintf("SELECT %s FROM %s WHERE rowid = ?", strings.Join(selectCols, ", "), table)
	readStmt, err := db.Prepare(readSQL)
	if err != nil {
		return nil, fmt.Errorf("prepare aux read on %s: %w", table, err)
	}

	placeholders := make([]string, len(selectCols)+1)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	writeSQL := fmt.Sprintf("INSERT OR REPLACE INTO %s (rowid, %s) VALUES (%s)",
		table, strings.Join(selectCols, ", "), strings.Join(placeholders, ", "))
	writeStmt, err := db.Prepare(writeSQL)
	if err != nil {
		readStmt.Close()
		return nil, fmt.Errorf("prepare aux write on %s: %w", table, err)
	}

	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE rowid = ?", table)
	deleteStmt, err := db.Prepare(deleteSQL)
	if err != nil {
		readStmt.Close()
		writeStmt.Close()
		return nil, fmt.Errorf("prepare aux delete on %s: %w", table, err)
	}

	return &auxStore{
		db:         db,
		table:      table,
		columns:    columns,
		readStmt:   readStmt,
		writeStmt:  writeStmt,
		deleteStmt: deleteStmt,
	}, nil
}

// read returns the user-column values and the _shape blob for rowid, using
// the read statement prepared once for this table.
func (a *auxStore) read(rowid int64) (values []any, shape []byte, err error) {
	dest := make([]any, len(a.columns)+1)
	raw := make([]any, len(a.columns)+1)
	for i := range dest {
		dest[i] = &raw[i]
	}
	if err := a.readStmt.QueryRow(rowid).Scan(dest...); err != nil {
		return nil, nil, fmt.Errorf("read aux row %d: %w", rowid, err)
	}
	shape, _ = raw[len(raw)-1].([]byte)
	return raw[:len(a.columns)], shape, nil
}

// write upserts rowid's user-column values and _shape blob in one
// statement. It always binds and rewrites the full row; columns whose
// values did not change are not skipped.
func (a *auxStore) write(rowid int64, values []any, shape []byte) error {
	args := make([]any, 0, len(values)+2)
	args = append(args, rowid)
	args = append(args, values...)
	args = append(args, shape)
	if _, err := a.writeStmt.Exec(args...); err != nil {
		return fmt.Errorf("write aux row %d: %w", rowid, err)
	}
	return nil
}

func (a *auxStore) delete(rowid int64) error {
	if _, err := a.deleteStmt.Exec(rowid); err != nil {
		return fmt.Errorf("delete aux row %d: %w", rowid, err)
	}
	return nil
}

func (a *auxStore) allRowids() ([]int64, error) {
	rows, err := a.db.Query(fmt.Sprintf("SELECT rowid FROM %s ORDER BY rowid", a.table))
	if err != nil {
		return nil, fmt.Errorf("scan aux table %s: %w", a.table, err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan aux table %s: %w", a.table, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (a *auxStore) close() error {
	a.readStmt.Close()
	a.writeStmt.Close()
	a.deleteStmt.Close()
	return nil
}
