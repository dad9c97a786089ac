// Command etl imports a yearly restaurant-trends workbook.
//
//	etl --in "data/incoming/YE24 Oculus SG.xlsx" --out data/processed --load postgres
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/oculusrep/commission-api/internal/config"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/restauranttrend"
	"github.com/oculusrep/commission-api/internal/utils/db"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	in := flag.String("in", "", "path to the input workbook (YE##*.xlsx)")
	out := flag.String("out", "", "directory for the output CSV files")
	load := flag.String("load", "none", "database load mode: none or postgres")
	level := flag.String("log-level", "INFO", "DEBUG, INFO, WARNING or ERROR")
	flag.Parse()

	log, err := newLogger(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "--in and --out are required")
		flag.Usage()
		os.Exit(2)
	}
	if *load != "none" && *load != "postgres" {
		fmt.Fprintf(os.Stderr, "--load must be none or postgres, got %q\n", *load)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := restauranttrend.Options{Input: *in, OutputDir: *out}
	if *load == "postgres" {
		database, err := openDatabase()
		if err != nil {
			log.Error("database connection failed", "err", err)
			os.Exit(1)
		}
		opts.Loader = restauranttrend.NewLoader(database, log)
	}

	if _, err := restauranttrend.Run(ctx, opts, log); err != nil {
		log.Error("restaurant trends import failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		l = slog.LevelDebug
	case "INFO":
		l = slog.LevelInfo
	case "WARNING", "WARN":
		l = slog.LevelWarn
	case "ERROR":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// openDatabase prefers DATABASE_URL and falls back to the API's DB settings.
func openDatabase() (*gorm.DB, error) {
	var database *gorm.DB
	if url := os.Getenv("DATABASE_URL"); url != "" {
		d, err := gorm.Open(postgres.Open(url), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err != nil {
			return nil, err
		}
		database = d
	} else {
		d, _, err := db.ConnectDataBase(config.Load())
		if err != nil {
			return nil, err
		}
		database = d
	}
	if err := database.AutoMigrate(&models.RestaurantLocation{}, &models.RestaurantTrend{}); err != nil {
		return nil, fmt.Errorf("migrate restaurant tables: %w", err)
	}
	return database, nil
}
