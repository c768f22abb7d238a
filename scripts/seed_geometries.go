//go:build ignore

// Manual helper: seeds a handful of resources with geometry rows in the
// spatial index so the search endpoints have something to hit locally.
//
//	go run scripts/seed_geometries.go -dsn "host=localhost port=5432 user=postgres password=postgres dbname=annotations sslmode=disable"
package main

import (
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type seedRow struct {
	ResourceID int64
	PropertyID int64
	WKT        string
}

func main() {
	dsn := flag.String("dsn", "", "postgres dsn")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("-dsn is required")
	}

	db, err := sqlx.Connect("pgx", *dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	rows := []seedRow{
		{ResourceID: 100, PropertyID: 41, WKT: "POINT (2.2945 48.8584)"},
		{ResourceID: 200, PropertyID: 41, WKT: "POINT (2.3499 48.8530)"},
		{ResourceID: 300, PropertyID: 41, WKT: "POLYGON ((2.28 48.85, 2.30 48.85, 2.30 48.87, 2.28 48.87, 2.28 48.85))"},
	}

	for _, r := range rows {
		_, err := db.Exec(`
			INSERT INTO resource_geometries (resource_id, property_id, geometry)
			VALUES ($1, $2, ST_GeomFromText($3, 4326))
			ON CONFLICT DO NOTHING`,
			r.ResourceID, r.PropertyID, r.WKT,
		)
		if err != nil {
			log.Fatalf("insert resource %d: %v", r.ResourceID, err)
		}
		fmt.Printf("seeded resource %d\n", r.ResourceID)
	}
}
