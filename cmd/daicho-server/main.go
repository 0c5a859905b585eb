// daicho-server serves the ledger query API: filtered transaction
// queries against the cached canonical table, ledger uploads with a
// synchronous rebuild, and cache reloads.
package main

import (
	"flag"
	"net/http"

	"github.com/cognicore/daicho/internal/httpapi"
	"github.com/cognicore/daicho/internal/logger"
	"github.com/cognicore/daicho/pkg/daicho"
	"github.com/cognicore/daicho/pkg/daicho/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file (optional)")
		listen     = flag.String("listen", "", "Listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("loading config")
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	log := logger.New(cfg.LogLevel)

	engine := daicho.New(daicho.Options{
		DataFile:     cfg.DataFile,
		PurchasePath: cfg.PurchasePath(),
		SalesPath:    cfg.SalesPath(),
		Classifier:   cfg.Classifier,
		Encoding:     cfg.Encoding,
		Log:          log,
	})

	// Warm the cache if the combined file already exists; a missing
	// file is fine until the first upload.
	if _, err := engine.Load(false); err != nil {
		log.Warn().Err(err).Msg("no canonical table yet")
	}

	handler := httpapi.New(engine, cfg.DataDir, cfg.PurchaseFilename, cfg.SalesFilename, log)

	log.Info().Str("listen", cfg.Listen).Msg("daicho server started")
	if err := http.ListenAndServe(cfg.Listen, handler.Routes()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
