package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonMunkholm/ldapbinds/internal/config"
	"github.com/JonMunkholm/ldapbinds/internal/core"
	"github.com/JonMunkholm/ldapbinds/internal/history"
	"github.com/JonMunkholm/ldapbinds/internal/lifecycle"
	"github.com/JonMunkholm/ldapbinds/internal/logging"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	start := time.Now()

	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 2
	}

	fs := pflag.NewFlagSet("ldapbinds", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	compress, err := core.ParseCompression(cfg.Output.Compress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	logPath := core.LogPath(cfg.Paths.LogDir, cfg.Paths.Input, start)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	logger := logging.Setup(logFile, cfg.Logging.Level, cfg.Logging.Format)
	lc := lifecycle.Start(logger, start, nil)

	runID := uuid.New()
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}
	logger.Debug("configuration loaded", "run_id", runID.String(), "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := openRecorder(ctx, cfg, logger)
	defer recorder.Close()

	outputPath := core.OutputPath(cfg.Paths.OutputDir, cfg.Paths.Input, compress)
	res := core.Run(ctx, core.RunConfig{
		InputDir:   cfg.Paths.Input,
		OutputPath: outputPath,
		Compress:   compress,
	}, logger)

	rec := history.RunRecord{
		ID:           runID,
		InputPath:    cfg.Paths.Input,
		OutputPath:   res.OutputPath,
		FilesFound:   res.FilesFound,
		FilesSkipped: res.FilesSkipped,
		RowsLoaded:   res.RowsLoaded,
		UniqueRows:   res.UniqueRows,
		Outcome:      res.Outcome.String(),
		StartedAt:    lc.StartedAt(),
		EndedAt:      time.Now(),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if err := recorder.Record(ctx, rec); err != nil {
		logger.Warn("failed to record run history", "run_id", runID.String(), "error", err)
	}

	return lc.Terminate(res.Outcome)
}

// openRecorder returns the Postgres recorder when a database is configured.
// Connection failures only disable history; the run itself goes ahead.
func openRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) history.Recorder {
	if !cfg.Database.HistoryEnabled() {
		return history.Nop{}
	}

	r, err := history.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Warn("run history disabled", "error", err)
		return history.Nop{}
	}
	return r
}
