// Command ingest loads a voter roll file into the SQLite store, replacing
// whatever it held before.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"voterroll/internal/codec"
	"voterroll/internal/config"
	"voterroll/internal/ingest"
	"voterroll/internal/repository/sqlite"
)

func main() {
	dbPath := flag.String("db", "", "SQLite database path (default: from config)")
	format := flag.String("format", "csv", "Input format: csv, json or yaml")
	noHeader := flag.Bool("no-header", false, "The CSV has no header line")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, _, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *format == "csv" {
		opts := ingest.Options{SkipHeader: cfg.SkipHeader() && !*noHeader}
		if _, err := ingest.LoadFile(ctx, path, repo, opts); err != nil {
			log.Fatalf("Failed to load %s: %v", path, err)
		}
		return
	}

	if err := importFile(ctx, path, *format, repo); err != nil {
		log.Fatalf("Failed to import %s: %v", path, err)
	}
}

// importFile loads an exported json or yaml roll
func importFile(ctx context.Context, path, format string, store ingest.Replacer) error {
	importer, err := codec.ForFormat(format)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	voters, err := importer.Parse(f)
	if err != nil {
		return err
	}
	if err := store.ReplaceAll(ctx, voters); err != nil {
		return fmt.Errorf("replace voters: %w", err)
	}

	log.Printf("Done. Imported %d voters from %s", len(voters), path)
	return nil
}
