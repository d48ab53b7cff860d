package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"property-extractor/browser"
	"property-extractor/config"
	"property-extractor/scraper"
	"property-extractor/session"
	"property-extractor/storage"
	"property-extractor/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== Property Records Extractor starting ===")
	logger.Info("Config — max pages: %d | start page: %d | page delay: %dms | snapshot every: %d pages",
		cfg.MaxPages, cfg.StartPage, cfg.PageDelayMs, cfg.SnapshotEvery)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chrome, err := browser.NewChrome(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start browser: %v", err)
		os.Exit(1)
	}
	defer chrome.Close()

	sess := session.New(cfg.StartPage)
	checkpoints := session.NewCheckpointManager(cfg.OutputDir, cfg.SnapshotEvery, logger)
	controller := scraper.New(cfg, logger, chrome, sess, checkpoints)

	runErr := controller.Run(ctx)
	if runErr != nil {
		logger.Error("Traversal aborted: %v", runErr)
	}

	// The session is flushed on every termination path, normal or not.
	reason := sess.Reason
	if reason == "" {
		reason = session.ReasonFatalError
	}
	logger.Info("Traversal finished — reason: %s | pages: %d | records: %d",
		reason, sess.CurrentPage, sess.Len())

	if sess.Len() == 0 {
		logger.Error("No records were extracted. Exiting.")
		os.Exit(1)
	}

	csvPath, jsonPath, err := checkpoints.Finalize(sess)
	if err != nil {
		logger.Error("Final write failed: %v", err)
		if csvPath == "" {
			os.Exit(1)
		}
	} else {
		logger.Info("Final results saved: %s | %s", csvPath, jsonPath)
	}

	if cfg.PostgresEnabled {
		persistToPostgres(cfg, logger, sess)
	}

	fmt.Printf("\n  Done. %d records (%s) → %s\n\n", sess.Len(), reason, csvPath)
}

// persistToPostgres mirrors the finalized records into the optional database
// sink. Failures are logged but never discard the file output.
func persistToPostgres(cfg *config.Config, logger *utils.Logger, sess *session.Session) {
	pg, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("PostgreSQL connect failed: %v", err)
		return
	}
	defer pg.Close()

	if err := pg.Write(sess.Records()); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return
	}
	logger.Info("Records stored in PostgreSQL (table: property_records)")
}
