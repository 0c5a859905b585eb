// daicho-classify converts one raw ledger export (買掛台帳 or 売掛台帳)
// into the tab-delimited interchange format. It is also the external
// classification step the server invokes during a rebuild.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/cognicore/daicho/pkg/daicho/interchange"
	"github.com/cognicore/daicho/pkg/daicho/ledger"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("daicho-classify: ")

	var (
		input      = flag.String("input", "", "Path to the raw ledger export (required)")
		output     = flag.String("output", "", "Destination file (defaults to stdout)")
		encoding   = flag.String("encoding", "cp932", "Source character encoding")
		ledgerType = flag.String("ledger", "", "Ledger label 買掛 or 売掛 (auto-detected from filename if omitted)")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("-input required")
	}

	variant := ledger.DetectVariant(filepath.Base(*input))
	switch *ledgerType {
	case "":
	case string(ledger.Payables):
		variant = ledger.Payables
	case string(ledger.Receivables):
		variant = ledger.Receivables
	default:
		log.Fatalf("unknown ledger label %q", *ledgerType)
	}

	src, err := os.Open(*input)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	rows, err := ledger.ReadSource(src, *encoding)
	if err != nil {
		log.Fatal(err)
	}

	entries := ledger.NewNormalizer(variant).NormalizeAll(rows)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal(err)
		}
		out = f
	}

	if err := interchange.Write(out, entries); err != nil {
		log.Fatal(err)
	}
	if *output != "" {
		if err := out.Close(); err != nil {
			log.Fatal(err)
		}
	}
}
