package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/ldapbinds/internal/lifecycle"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var counts = message.NewPrinter(language.English)

// RunConfig is the per-run configuration threaded through every stage.
type RunConfig struct {
	InputDir   string
	OutputPath string
	Compress   Compression

	// Keys overrides DedupKey when set.
	Keys []string
}

// RunResult describes a finished run.
type RunResult struct {
	Outcome lifecycle.Outcome
	Err     error

	FilesFound   int
	FilesSkipped int
	RowsLoaded   int
	UniqueRows   int
	BytesRead    int64

	// OutputPath is set only when the export succeeded.
	OutputPath string
}

// Run executes discover, load, dedup and export in order. Each stage's
// failure is logged and ends the run; no later stage runs and nothing is
// written. Run never exits the process.
func Run(ctx context.Context, rc RunConfig, logger *slog.Logger) RunResult {
	var res RunResult

	files, err := Discover(rc.InputDir)
	if err != nil {
		err = &StageError{Stage: StageDiscover, Err: err}
		if errors.Is(err, ErrInputNotFound) {
			return fail(logger, res, "Input directory does not exist. Terminating.", err)
		}
		return fail(logger, res, "Unexpected error while finding input files. Terminating.", err)
	}
	res.FilesFound = len(files)
	logger.Info(fmt.Sprintf("Found %d CSV files containing input data.", len(files)))

	ds, stats, err := LoadAll(ctx, files)
	res.FilesSkipped = len(stats.SkippedFiles)
	res.BytesRead = stats.BytesRead
	for _, path := range stats.SkippedFiles {
		logger.Warn(fmt.Sprintf("Failed to read file content as CSV: %s", path))
	}
	if err != nil {
		var se *StageError
		switch {
		case errors.Is(err, ErrNoData):
			logger.Info("No data found in any selected CSV file. This is not an error. Terminating.")
			res.Outcome = lifecycle.Clean
			return res
		case errors.As(err, &se) && se.Stage == StageConcat:
			return fail(logger, res, "Unexpected error while concatenating data. Terminating.", err)
		default:
			return fail(logger, res, "Unexpected error while reading CSV data. Terminating.", err)
		}
	}
	res.RowsLoaded = ds.Len()
	logger.Info(counts.Sprintf("Concatenated %d records into a dataframe for analysis.", ds.Len()))
	logger.Debug("load complete", "files_read", stats.FilesRead, "bytes_read", stats.BytesRead)

	unique, err := DropDuplicates(ds, rc.Keys...)
	if err != nil {
		err = &StageError{Stage: StageDedup, Err: err}
		return fail(logger, res, "Unexpected error while dropping duplicate entries from dataframe. Terminating.", err)
	}
	res.UniqueRows = unique.Len()
	logger.Info(fmt.Sprintf("Dropped duplicate records. There are %d unique records remaining.", unique.Len()))

	if err := Export(unique, rc.OutputPath, rc.Compress); err != nil {
		err = &StageError{Stage: StageExport, Err: err}
		return fail(logger, res, "Unexpected error while exporting data to CSV. Terminating.", err)
	}
	res.OutputPath = rc.OutputPath
	logger.Info(fmt.Sprintf("Exported dataframe to CSV file: %s", rc.OutputPath))

	res.Outcome = lifecycle.Clean
	return res
}

func fail(logger *slog.Logger, res RunResult, msg string, err error) RunResult {
	logger.Error(msg)
	logger.Error(fmt.Sprintf("%s - %v", Kind(err), err))
	res.Outcome = lifecycle.Fatal
	res.Err = err
	return res
}
