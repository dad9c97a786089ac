package restauranttrend

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrNoRows is returned when nothing survives cleaning.
var ErrNoRows = errors.New("no valid data after cleaning")

// Options drive one import run. A nil Loader skips the database load.
type Options struct {
	Input     string
	OutputDir string
	Loader    *Loader
}

// Result reports what a run produced.
type Result struct {
	Year      int
	Locations int
	Trends    int
	Cleaning  Stats
	Files     Exported
	Load      *LoadStats
	Elapsed   time.Duration
}

// Run reads the workbook, cleans and maps it, writes the CSV pair and, with a
// Loader, upserts the rows.
func Run(ctx context.Context, opts Options, log *slog.Logger) (*Result, error) {
	start := time.Now()
	log.Info("restaurant trends import starting", "input", opts.Input, "out", opts.OutputDir, "load", opts.Loader != nil)

	year, err := YearFromFilename(opts.Input)
	if err != nil {
		return nil, err
	}
	log.Info("year from filename", "year", year)

	sheet, err := ReadWorkbook(opts.Input)
	if err != nil {
		return nil, err
	}
	log.Info("read workbook", "sheet", sheet.Name, "rows", len(sheet.Records), "columns", len(sheet.Header))

	records, stats, err := Clean(sheet, log)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	locs := Locations(records)
	trends := Trends(records, year)
	log.Info("split rows", "locations", len(locs), "trends", len(trends))

	files, err := WriteCSV(opts.OutputDir, BaseName(opts.Input), year, locs, trends)
	if err != nil {
		return nil, err
	}
	log.Info("exported csv", "locations", files.Locations, "trends", files.Trends)

	res := &Result{Year: year, Locations: len(locs), Trends: len(trends), Cleaning: stats, Files: files}
	if opts.Loader != nil {
		ls, err := opts.Loader.Load(ctx, locs, trends)
		if err != nil {
			return nil, err
		}
		res.Load = &ls
	} else {
		log.Info("skipping database load")
	}
	res.Elapsed = time.Since(start)
	log.Info("restaurant trends import complete", "year", year, "locations", res.Locations, "trends", res.Trends, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}
