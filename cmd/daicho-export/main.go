// daicho-export dumps the canonical transaction table into a SQLite
// database for ad-hoc analysis outside the engine.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/cognicore/daicho/pkg/daicho/canon"
	"github.com/cognicore/daicho/pkg/daicho/interchange"
	"github.com/cognicore/daicho/pkg/daicho/store/sqlite"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("daicho-export: ")

	var (
		dataFile = flag.String("data", "normalized_ledgers.tsv", "Combined interchange TSV")
		dbPath   = flag.String("db", "", "SQLite database path (required)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("-db required")
	}

	src, err := interchange.ReadFile(*dataFile)
	if err != nil {
		log.Fatal(err)
	}
	table := canon.Canonicalize(src)

	ctx := context.Background()
	store, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := store.Replace(ctx, table.Transactions); err != nil {
		log.Fatal(err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("exported %d transactions to %s", n, *dbPath)
}
