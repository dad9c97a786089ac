package restauranttrend

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oculusrep/commission-api/internal/models"
)

// Exported names the CSV files written for one workbook.
type Exported struct {
	Locations string
	Trends    string
}

// WriteCSV writes <base>_<year>_locations.csv and <base>_<year>_trends.csv
// into dir, creating it when needed. Headers are database column names.
func WriteCSV(dir, base string, year int, locs []models.RestaurantLocation, trends []models.RestaurantTrend) (Exported, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Exported{}, fmt.Errorf("create output dir: %w", err)
	}
	out := Exported{
		Locations: filepath.Join(dir, fmt.Sprintf("%s_%d_locations.csv", base, year)),
		Trends:    filepath.Join(dir, fmt.Sprintf("%s_%d_trends.csv", base, year)),
	}

	locRows := make([][]string, 0, len(locs)+1)
	locRows = append(locRows, dbHeader(LocationColumns))
	for i := range locs {
		locRows = append(locRows, locationRow(&locs[i]))
	}
	if err := writeFile(out.Locations, locRows); err != nil {
		return out, err
	}

	trendRows := make([][]string, 0, len(trends)+1)
	trendRows = append(trendRows, append(dbHeader(TrendColumns), "year"))
	for i := range trends {
		trendRows = append(trendRows, trendRow(&trends[i]))
	}
	if err := writeFile(out.Trends, trendRows); err != nil {
		return out, err
	}
	return out, nil
}

func writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func dbHeader(cols []Column) []string {
	h := make([]string, len(cols))
	for i, c := range cols {
		h[i] = c.DB
	}
	return h
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func flt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func num(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// locationRow follows LocationColumns.
func locationRow(l *models.RestaurantLocation) []string {
	return []string{
		l.StoreNo, str(l.ChainNo), str(l.Chain), str(l.GeoAddress), str(l.GeoCity),
		str(l.GeoState), str(l.GeoZip), str(l.GeoZip4), str(l.County), str(l.DMAMarket),
		str(l.DMANo), str(l.Segment), str(l.Subsegment), str(l.Category), flt(l.Latitude),
		flt(l.Longitude), str(l.GeoQuality), num(l.YrBuilt), str(l.CoFr), str(l.CoFrNo),
		str(l.SegNo),
	}
}

// trendRow follows TrendColumns, then year.
func trendRow(t *models.RestaurantTrend) []string {
	return []string{
		t.StoreNo, str(t.CurrNatlGrade), flt(t.CurrNatlIndex), flt(t.CurrAnnualSlsK), str(t.CurrMktGrade),
		str(t.LabelCngCmg), str(t.LabelCngLtPng), flt(t.CurrMktIndex), num(t.SurveyYrLastC), num(t.SurveyYrNextC),
		num(t.TtlNoSurveysC), num(t.PastYrs), str(t.PastNatlGrade), str(t.LabelPng), flt(t.PastNatlIndex),
		flt(t.PastAnnualSlsK), str(t.PastMktGrade), str(t.LabelPngPmg), flt(t.PastMktIndex), num(t.SurveyYrLastP),
		num(t.SurveyYrNextP), num(t.TtlNoSurveysP), strconv.Itoa(t.Year),
	}
}
