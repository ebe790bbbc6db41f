package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/mattn/go-sqlite3"
	"github.com/polyspace/geopoly/pkg/geopoly"
)

func main() {
	var db *sql.DB
	sql.Register("geopoly_demo", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return geopoly.Register(db, conn)
		},
	})

	var err error
	db, err = sql.Open("geopoly_demo", ":memory:")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE VIRTUAL TABLE shapes USING geopoly(name)`); err != nil {
		log.Fatal(err)
	}

	rows := []struct {
		rowid int64
		name  string
		json  string
	}{
		{1, "harbor", "[[0,0],[10,0],[10,10],[0,10]]"},
		{2, "pier", "[[4,4],[6,4],[6,6],[4,6]]"},
		{3, "lighthouse", "[[50,50],[51,50],[51,51],[50,51]]"},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO shapes(rowid, name, _shape) VALUES (?, ?, geopoly_blob(?))`,
			r.rowid, r.name, r.json); err != nil {
			log.Fatal(err)
		}
	}

	query := "[[3,3],[7,3],[7,7],[3,7]]"
	result, err := db.Query(
		`SELECT name, geopoly_area(_shape) FROM shapes WHERE geopoly_overlap(_shape, ?) != 0`,
		query)
	if err != nil {
		log.Fatal(err)
	}
	defer result.Close()

	fmt.Println("shapes overlapping the query rectangle:")
	for result.Next() {
		var name string
		var area float64
		if err := result.Scan(&name, &area); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("  %s (area %.1f)\n", name, area)
	}
}
