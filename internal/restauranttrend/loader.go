package restauranttrend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// Loader upserts workbook rows into the database.
type Loader struct {
	DB  *gorm.DB
	Log *slog.Logger
}

func NewLoader(db *gorm.DB, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{DB: db, Log: log}
}

// LoadStats summarises the tables after a load.
type LoadStats struct {
	Locations      int64  `json:"totalLocations"`
	Trends         int64  `json:"totalTrends"`
	VerifiedCoords int64  `json:"locationsWithVerifiedCoords"`
	YearRange      string `json:"yearRange"`
}

func updateColumns(cols []Column, skip ...string) []string {
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	out := []string{"updated_at"}
	for _, c := range cols {
		if !skipped[c.DB] {
			out = append(out, c.DB)
		}
	}
	return out
}

// UpsertLocations inserts or refreshes locations by store_no. Verified
// coordinates are never overwritten.
func (l *Loader) UpsertLocations(ctx context.Context, locs []models.RestaurantLocation) (int64, error) {
	if len(locs) == 0 {
		l.Log.Warn("no locations to upsert")
		return 0, nil
	}
	res := l.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_no"}},
			DoUpdates: clause.AssignmentColumns(updateColumns(LocationColumns, "store_no")),
		}).
		CreateInBatches(&locs, batchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("upsert locations: %w", res.Error)
	}
	l.Log.Info("upserted locations", "rows", res.RowsAffected)
	return res.RowsAffected, nil
}

// UpsertTrends inserts or refreshes trends by (store_no, year).
func (l *Loader) UpsertTrends(ctx context.Context, trends []models.RestaurantTrend) (int64, error) {
	if len(trends) == 0 {
		l.Log.Warn("no trends to upsert")
		return 0, nil
	}
	res := l.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_no"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns(updateColumns(TrendColumns, "store_no")),
		}).
		CreateInBatches(&trends, batchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("upsert trends: %w", res.Error)
	}
	l.Log.Info("upserted trends", "rows", res.RowsAffected)
	return res.RowsAffected, nil
}

// MissingStores returns the trend store numbers with no location row.
func (l *Loader) MissingStores(ctx context.Context, trends []models.RestaurantTrend) ([]string, error) {
	var stores []string
	seen := map[string]bool{}
	for _, t := range trends {
		if !seen[t.StoreNo] {
			seen[t.StoreNo] = true
			stores = append(stores, t.StoreNo)
		}
	}

	existing := make(map[string]bool, len(stores))
	for start := 0; start < len(stores); start += batchSize {
		end := min(start+batchSize, len(stores))
		var found []string
		err := l.DB.WithContext(ctx).Model(&models.RestaurantLocation{}).
			Where("store_no IN ?", stores[start:end]).
			Pluck("store_no", &found).Error
		if err != nil {
			return nil, fmt.Errorf("verify stores: %w", err)
		}
		for _, s := range found {
			existing[s] = true
		}
	}

	var missing []string
	for _, s := range stores {
		if !existing[s] {
			missing = append(missing, s)
		}
	}
	return missing, nil
}

// Stats counts what is in the tables now.
func (l *Loader) Stats(ctx context.Context) (LoadStats, error) {
	db := l.DB.WithContext(ctx)
	var s LoadStats
	if err := db.Model(&models.RestaurantLocation{}).Count(&s.Locations).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.RestaurantTrend{}).Count(&s.Trends).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.RestaurantLocation{}).
		Where("verified_latitude IS NOT NULL AND verified_longitude IS NOT NULL").
		Count(&s.VerifiedCoords).Error; err != nil {
		return s, err
	}
	var span struct {
		MinYear *int
		MaxYear *int
	}
	if err := db.Model(&models.RestaurantTrend{}).Select("MIN(year) AS min_year, MAX(year) AS max_year").Scan(&span).Error; err != nil {
		return s, err
	}
	s.YearRange = "No data"
	if span.MinYear != nil && span.MaxYear != nil {
		s.YearRange = fmt.Sprintf("%d-%d", *span.MinYear, *span.MaxYear)
	}
	return s, nil
}

// Load writes locations, checks every trend store exists, then writes trends.
func (l *Loader) Load(ctx context.Context, locs []models.RestaurantLocation, trends []models.RestaurantTrend) (LoadStats, error) {
	if _, err := l.UpsertLocations(ctx, locs); err != nil {
		return LoadStats{}, err
	}
	missing, err := l.MissingStores(ctx, trends)
	if err != nil {
		return LoadStats{}, err
	}
	if len(missing) > 0 {
		shown := missing
		if len(shown) > 10 {
			shown = shown[:10]
		}
		l.Log.Error("trend stores missing from restaurant_location", "count", len(missing), "first", shown)
		return LoadStats{}, fmt.Errorf("cannot load trends: %d store_nos not found in location table", len(missing))
	}
	if _, err := l.UpsertTrends(ctx, trends); err != nil {
		return LoadStats{}, err
	}
	stats, err := l.Stats(ctx)
	if err != nil {
		return LoadStats{}, fmt.Errorf("load stats: %w", err)
	}
	l.Log.Info("database load complete", "locations", stats.Locations, "trends", stats.Trends,
		"verified_coords", stats.VerifiedCoords, "years", stats.YearRange)
	return stats, nil
}
