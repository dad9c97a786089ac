package restauranttrend

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
)

const nullWarnPercent = 10.0

// Stats describes what cleaning did to a sheet.
type Stats struct {
	TotalRows            int
	EmptyDropped         int
	NullStoreDropped     int
	DuplicatesDropped    int
	InvalidCoordsCleared int

	NullPercent  map[string]float64
	UniqueStores int
	UniqueChains int
	UniqueStates int

	Warnings []string
}

// Final is the number of rows kept.
func (s Stats) Final() int {
	return s.TotalRows - s.EmptyDropped - s.NullStoreDropped - s.DuplicatesDropped
}

func (s *Stats) warn(log *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn(msg)
	s.Warnings = append(s.Warnings, msg)
}

// Log writes the cleaning summary.
func (s Stats) Log(log *slog.Logger) {
	log.Info("cleaning summary",
		"total", s.TotalRows,
		"empty_dropped", s.EmptyDropped,
		"null_store_dropped", s.NullStoreDropped,
		"duplicates_dropped", s.DuplicatesDropped,
		"invalid_coords_cleared", s.InvalidCoordsCleared,
		"final", s.Final(),
	)
	if len(s.Warnings) == 0 {
		return
	}
	log.Warn("cleaning warnings", "count", len(s.Warnings))
	for i, w := range s.Warnings {
		if i == 10 {
			log.Warn(fmt.Sprintf("... and %d more warnings", len(s.Warnings)-10))
			break
		}
		log.Warn("  - " + w)
	}
}

// Clean drops empty rows, rows without STORE_NO and repeated stores (first
// one wins), blanks out-of-range coordinates on the rows it keeps, then
// measures null share in the key columns.
func Clean(sheet *Sheet, log *slog.Logger) ([]Record, Stats, error) {
	stats := Stats{TotalRows: len(sheet.Records), NullPercent: map[string]float64{}}
	if missing := MissingColumns(sheet.Header); len(missing) > 0 {
		return nil, stats, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	log.Info("cleaning rows", "rows", stats.TotalRows)

	seen := make(map[string]bool)
	var dups []string
	kept := make([]Record, 0, len(sheet.Records))
	for _, rec := range sheet.Records {
		switch store := strings.TrimSpace(rec[storeNoHeader]); {
		case rec.blank():
			stats.EmptyDropped++
		case store == "":
			stats.NullStoreDropped++
		case seen[store]:
			stats.DuplicatesDropped++
			dups = append(dups, store)
		default:
			seen[store] = true
			if !ValidCoordinates(number(rec["LATITUDE"]), number(rec["LONGITUDE"])) {
				stats.InvalidCoordsCleared++
				log.Debug("invalid coordinates", "store_no", store, "lat", rec["LATITUDE"], "lon", rec["LONGITUDE"])
				rec = rec.withoutCoordinates()
			}
			kept = append(kept, rec)
		}
	}

	if stats.EmptyDropped > 0 {
		log.Info("dropped empty rows", "count", stats.EmptyDropped)
	}
	if stats.NullStoreDropped > 0 {
		stats.warn(log, "%d rows missing required STORE_NO field", stats.NullStoreDropped)
	}
	if stats.InvalidCoordsCleared > 0 {
		stats.warn(log, "%d rows with out-of-range coordinates, coordinates cleared", stats.InvalidCoordsCleared)
	}
	if len(dups) > 0 {
		examples := dups
		if len(examples) > 5 {
			examples = examples[:5]
		}
		log.Warn("example duplicates", "store_nos", strings.Join(examples, ", "))
		stats.warn(log, "%d duplicate STORE_NO values found", len(dups))
	}

	checkQuality(kept, &stats, log)
	stats.Log(log)
	return kept, stats, nil
}

// withoutCoordinates copies r with LATITUDE and LONGITUDE blanked.
func (r Record) withoutCoordinates() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	out["LATITUDE"] = ""
	out["LONGITUDE"] = ""
	return out
}

func checkQuality(rows []Record, stats *Stats, log *slog.Logger) {
	for _, col := range qualityColumns {
		nulls := 0
		for _, r := range rows {
			if strings.TrimSpace(r[col]) == "" {
				nulls++
			}
		}
		pct := 0.0
		if len(rows) > 0 {
			pct = float64(nulls) / float64(len(rows)) * 100
		}
		stats.NullPercent[col] = math.Round(pct*100) / 100
		if pct > nullWarnPercent {
			stats.warn(log, "column '%s' has %.1f%% null values", col, pct)
		}
	}
	stats.UniqueStores = distinct(rows, "STORE_NO")
	stats.UniqueChains = distinct(rows, "CHAIN")
	stats.UniqueStates = distinct(rows, "GEOSTATE")
	log.Info("data profile", "stores", stats.UniqueStores, "chains", stats.UniqueChains, "states", stats.UniqueStates)
}

func distinct(rows []Record, col string) int {
	set := make(map[string]struct{})
	for _, r := range rows {
		if v := strings.TrimSpace(r[col]); v != "" {
			set[v] = struct{}{}
		}
	}
	return len(set)
}
