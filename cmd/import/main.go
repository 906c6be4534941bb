// Command import loads catalog records from an .xlsx workbook into the
// database.
//
//	import [-owner id] catalog.xlsx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"travel-booking/internal/config"
	"travel-booking/internal/database"
	"travel-booking/internal/importer"
	"travel-booking/internal/logger"
	"travel-booking/internal/service"
	"travel-booking/internal/storage"
)

func main() {
	owner := flag.String("owner", "", "user id recorded as owner of imported records")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-owner id] workbook.xlsx\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log, flag.Arg(0), *owner); err != nil {
		log.Fatal("Import failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, path, owner string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := database.Migrate(cfg.DB.URL(), cfg.MigrationsPath); err != nil {
		return err
	}
	db, err := database.New(cfg.DB, log)
	if err != nil {
		return err
	}
	defer db.Close()

	media, err := storage.New(cfg.Storage, log)
	if err != nil {
		return err
	}

	catalog := service.New(db, media, cfg.Buckets, log)
	results, err := importer.New(catalog, owner, log).Import(ctx, f)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(results); encErr != nil {
		log.Warn("write summary", zap.Error(encErr))
	}
	return err
}
