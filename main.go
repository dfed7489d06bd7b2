package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/dirham-statement-importer/internal/api"
	"github.com/insightdelivered/dirham-statement-importer/internal/config"
	"github.com/insightdelivered/dirham-statement-importer/internal/engine"
	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
	"github.com/insightdelivered/dirham-statement-importer/internal/source"
	"github.com/insightdelivered/dirham-statement-importer/internal/store"
	"github.com/insightdelivered/dirham-statement-importer/internal/writer"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(args []string) int {
	fs := flag.NewFlagSet("dirham-statement-importer", flag.ContinueOnError)

	// CLI flags
	configFlag := fs.String("config", "", "Path to an INI configuration file")
	bankFlag := fs.String("bank", "", "Bank layout: attijariwafa, cih (auto-detected if omitted)")
	storeFlag := fs.String("store", "", "Store backend: memory, file, redis, postgres (overrides config)")
	storePathFlag := fs.String("store-path", "", "JSON file used by the file store (overrides config)")
	dryRunFlag := fs.Bool("dry-run", false, "Parse statements without touching the store")
	csvFlag := fs.String("csv", "", "Write the accumulated records to this CSV file after importing")
	headerFlag := fs.Bool("header", true, "Include variant and period rows in CSV output")
	serveFlag := fs.Bool("serve", false, "Run the HTTP API instead of importing files")
	addrFlag := fs.String("addr", "", "Listen address for -serve (overrides config)")
	logLevelFlag := fs.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	helpFlag := fs.Bool("help", false, "Show usage help")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Dirham Statement Importer
by Insight Delivered

Reads Moroccan bank statement PDFs (Attijariwafa bank, CIH Bank), extracts
their transactions and merges them into a deduplicated record store.

Usage:
  dirham-statement-importer [flags] <statement.pdf|gs://bucket/object> ...
  dirham-statement-importer -serve [flags]

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Import into a local JSON store and export everything as CSV
  dirham-statement-importer -store=file -store-path=records.json -csv=all.csv juillet.pdf

  # Parse only, forcing the CIH layout
  dirham-statement-importer -dry-run -bank=cih releve.pdf

  # Import from Cloud Storage into Redis
  dirham-statement-importer -config=importer.ini gs://statements/2024/07/releve.pdf

  # Serve the HTTP API
  dirham-statement-importer -serve -addr=:8080
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Printf("dirham-statement-importer v%s\n", version)
		return 0
	}

	if *helpFlag || (fs.NArg() == 0 && !*serveFlag) {
		fs.Usage()
		return 0
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if *storeFlag != "" {
		cfg.Store.Backend = *storeFlag
	}
	if *storePathFlag != "" {
		cfg.Store.Path = *storePathFlag
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}

	log := logger.New(cfg.Log.Level)
	if cfg.Log.JSON {
		log = logger.NewWithWriter(os.Stderr, cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	var variant models.BankVariant
	if *bankFlag != "" {
		variant, err = models.ParseBankVariant(*bankFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Opening store: %v\n", err)
		return 1
	}
	defer closeStore(st)

	eng := engine.New(nil, st, engine.LimitsFromConfig(cfg.Engine))

	if *serveFlag {
		if err := serve(ctx, eng, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			return 1
		}
		return 0
	}

	// Imports run one after another; the store is single-writer.
	for _, input := range fs.Args() {
		if err := processFile(ctx, eng, input, variant, *dryRunFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", input, err)
			return 1
		}
	}

	if *csvFlag != "" && !*dryRunFlag {
		if err := exportCSV(ctx, st, *csvFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "CSV export failed: %v\n", err)
			return 1
		}
		fmt.Printf("Exported store to %s\n", *csvFlag)
	}
	return 0
}

func processFile(ctx context.Context, eng *engine.Engine, input string, variant models.BankVariant, dryRun, includeHeader bool) error {
	fmt.Printf("Processing: %s\n", input)

	data, err := source.Read(ctx, input, eng.Limits().MaxInputBytes)
	if err != nil {
		return err
	}
	opts := engine.Options{Variant: variant}

	if dryRun {
		st, err := eng.Parse(ctx, data, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		printSummary(st)
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		return w.Write(os.Stdout, st)
	}

	res, err := eng.Import(ctx, data, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	printSummary(res.Statement)
	if res.Duplicate() {
		fmt.Println("  Already imported: no new transactions.")
	} else {
		fmt.Printf("  Added %d new transaction(s), %d in store\n", res.Added, res.Total)
	}
	fmt.Println("  Done.")
	return nil
}

func printSummary(st *models.Statement) {
	fmt.Printf("  Layout: %s\n", st.Variant)
	fmt.Printf("  Period: %s (%s balance, line %d)\n", st.Period, st.Period.Anchor, st.Period.LineNum)
	fmt.Printf("  Found %d transaction(s)\n", len(st.Records))
	if st.FailedLines > 0 {
		fmt.Printf("  Warning: %d line(s) could not be read\n", st.FailedLines)
	}
}

func exportCSV(ctx context.Context, st store.Store, path string, includeHeader bool) error {
	records, err := st.List(ctx)
	if err != nil {
		return err
	}
	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	return w.WriteToFile(path, &models.Statement{Records: records})
}

func serve(ctx context.Context, eng *engine.Engine, cfg config.Config, log zerolog.Logger) error {
	app := api.NewApp(&api.Handler{
		Engine:    eng,
		Logger:    log,
		Version:   version,
		StaticDir: cfg.Server.StaticDir,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func closeStore(st store.Store) {
	switch s := st.(type) {
	case *store.RedisStore:
		_ = s.Close()
	case *store.PostgresStore:
		s.Close()
	}
}
