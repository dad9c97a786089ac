package restauranttrend

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/utils/db/dbtest"
	"github.com/xuri/excelize/v2"
)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fullHeader() []string {
	var h []string
	seen := map[string]bool{}
	for _, set := range [][]Column{LocationColumns, TrendColumns} {
		for _, c := range set {
			if !seen[c.Excel] {
				seen[c.Excel] = true
				h = append(h, c.Excel)
			}
		}
	}
	return h
}

func sheetOf(rows ...Record) *Sheet {
	s := &Sheet{Name: "Sheet1", Header: fullHeader()}
	for _, r := range rows {
		rec := Record{}
		for _, h := range s.Header {
			rec[h] = r[h]
		}
		s.Records = append(s.Records, rec)
	}
	return s
}

func TestYearFromFilename(t *testing.T) {
	cases := map[string]int{
		"YE24 Oculus SG.xlsx":           2024,
		"data/incoming/ye19 Brien.xlsx": 2019,
		"YE15_Data.xlsx":                2015,
	}
	for name, want := range cases {
		got, err := YearFromFilename(name)
		if err != nil || got != want {
			t.Errorf("%s: got %d, %v", name, got, err)
		}
	}
	if _, err := YearFromFilename("Oculus YE24.xlsx"); !errors.Is(err, ErrNoYear) {
		t.Errorf("err = %v, want ErrNoYear", err)
	}
	if BaseName("data/YE24 Oculus SG.xlsx") != "YE24 Oculus SG" {
		t.Error("BaseName should strip dir and extension")
	}
}

func TestCoercion(t *testing.T) {
	if v := number(" 1,234.5 "); v == nil || *v != 1234.5 {
		t.Errorf("number = %v", v)
	}
	if number("n/a") != nil || number("") != nil {
		t.Error("invalid numbers must be nil")
	}
	if v := integer("1998.0"); v == nil || *v != 1998 {
		t.Errorf("integer = %v", v)
	}
	if text("   ") != nil {
		t.Error("blank text must be nil")
	}
	lat, lon := 91.0, 10.0
	if ValidCoordinates(&lat, &lon) {
		t.Error("latitude 91 accepted")
	}
	if !ValidCoordinates(nil, &lon) {
		t.Error("missing coordinate must be valid")
	}
}

func TestClean(t *testing.T) {
	sheet := sheetOf(
		Record{"STORE_NO": "100", "CHAIN": "Chick-fil-A", "GEOSTATE": "GA", "LATITUDE": "33.7", "LONGITUDE": "-84.4"},
		Record{},
		Record{"CHAIN": "Orphan"},
		Record{"STORE_NO": "100", "CHAIN": "Duplicate"},
		Record{"STORE_NO": "200", "LATITUDE": "123", "LONGITUDE": "0"},
		Record{"STORE_NO": "300", "CHAIN": "Waffle House", "GEOSTATE": "GA"},
	)
	rows, stats, err := Clean(sheet, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0]["CHAIN"] != "Chick-fil-A" || rows[2]["STORE_NO"] != "300" {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1]["STORE_NO"] != "200" || rows[1]["LATITUDE"] != "" || rows[1]["LONGITUDE"] != "" {
		t.Fatalf("out-of-range coordinates should be cleared and the store kept: %v", rows[1])
	}
	if sheet.Records[4]["LATITUDE"] != "123" {
		t.Error("cleaning must not modify the sheet")
	}
	if stats.TotalRows != 6 || stats.EmptyDropped != 1 || stats.NullStoreDropped != 1 ||
		stats.DuplicatesDropped != 1 || stats.InvalidCoordsCleared != 1 || stats.Final() != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.NullPercent["LATITUDE"] != 66.67 {
		t.Errorf("latitude null%% = %v", stats.NullPercent["LATITUDE"])
	}
	if stats.UniqueChains != 2 || stats.UniqueStates != 1 {
		t.Errorf("profile = %+v", stats)
	}
	if len(stats.Warnings) == 0 {
		t.Error("expected warnings")
	}
}

func TestCleanRequiresColumns(t *testing.T) {
	sheet := &Sheet{Header: []string{"STORE_NO", "CHAIN"}}
	if _, _, err := Clean(sheet, quietLog()); err == nil {
		t.Fatal("expected missing columns error")
	}
}

func TestTransformAndExport(t *testing.T) {
	records := []Record{{
		"STORE_NO": " 100 ", "CHAIN": "Chick-fil-A", "LATITUDE": "33.75", "YR_BUILT": "1998",
		"CNI(CURR_NATL_INDEX)": "112.5", "CNG(CURR_NATL_GRADE)": "A", "TTL_NO_SURVEYS(C)": "4", "CURR_ANNUAL_SLS($000)": "oops",
	}}
	locs := Locations(records)
	trends := Trends(records, 2024)
	if len(locs) != 1 || locs[0].StoreNo != "100" || *locs[0].YrBuilt != 1998 || *locs[0].Latitude != 33.75 {
		t.Fatalf("locs = %+v", locs)
	}
	tr := trends[0]
	if tr.Year != 2024 || *tr.CurrNatlIndex != 112.5 || *tr.TtlNoSurveysC != 4 || tr.CurrAnnualSlsK != nil {
		t.Fatalf("trend = %+v", tr)
	}

	dir := filepath.Join(t.TempDir(), "processed")
	files, err := WriteCSV(dir, "YE24 Oculus SG", 2024, locs, trends)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(files.Locations) != "YE24 Oculus SG_2024_locations.csv" {
		t.Errorf("locations file = %s", files.Locations)
	}
	rows := readCSV(t, files.Trends)
	if len(rows) != 2 {
		t.Fatalf("trend rows = %d", len(rows))
	}
	header, row := rows[0], rows[1]
	if len(header) != len(TrendColumns)+1 || header[len(header)-1] != "year" || row[len(row)-1] != "2024" {
		t.Errorf("header %v row %v", header, row)
	}
	loc := readCSV(t, files.Locations)
	if loc[0][0] != "store_no" || loc[1][0] != "100" || len(loc[1]) != len(LocationColumns) {
		t.Errorf("locations csv = %v", loc)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func ptr[T any](v T) *T { return &v }

func TestLoaderUpserts(t *testing.T) {
	db := dbtest.Open(t)
	l := NewLoader(db, quietLog())
	ctx := context.Background()

	locs := []models.RestaurantLocation{{StoreNo: "100", Chain: ptr("Old")}, {StoreNo: "200"}}
	trends := []models.RestaurantTrend{{StoreNo: "100", Year: 2023, CurrNatlIndex: ptr(90.0)}}
	if _, err := l.Load(ctx, locs, trends); err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&models.RestaurantLocation{}).Where("store_no = ?", "100").
		Updates(map[string]any{"verified_latitude": 33.1, "verified_longitude": -84.2}).Error; err != nil {
		t.Fatal(err)
	}

	locs[0].Chain = ptr("New")
	trends = []models.RestaurantTrend{
		{StoreNo: "100", Year: 2023, CurrNatlIndex: ptr(95.0)},
		{StoreNo: "100", Year: 2024},
	}
	stats, err := l.Load(ctx, locs, trends)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Locations != 2 || stats.Trends != 2 || stats.VerifiedCoords != 1 || stats.YearRange != "2023-2024" {
		t.Errorf("stats = %+v", stats)
	}

	var got models.RestaurantLocation
	if err := db.First(&got, "store_no = ?", "100").Error; err != nil {
		t.Fatal(err)
	}
	if got.Chain == nil || *got.Chain != "New" || got.VerifiedLatitude == nil {
		t.Errorf("location = %+v", got)
	}
	var tr models.RestaurantTrend
	if err := db.First(&tr, "store_no = ? AND year = ?", "100", 2023).Error; err != nil {
		t.Fatal(err)
	}
	if tr.CurrNatlIndex == nil || *tr.CurrNatlIndex != 95 {
		t.Errorf("trend index = %v", tr.CurrNatlIndex)
	}
}

func TestLoaderRejectsUnknownStores(t *testing.T) {
	db := dbtest.Open(t)
	l := NewLoader(db, quietLog())
	trends := []models.RestaurantTrend{{StoreNo: "999", Year: 2024}}
	if _, err := l.Load(context.Background(), []models.RestaurantLocation{{StoreNo: "100"}}, trends); err == nil {
		t.Fatal("expected missing store error")
	}
	var n int64
	db.Model(&models.RestaurantTrend{}).Count(&n)
	if n != 0 {
		t.Errorf("trends written = %d", n)
	}
}

func writeWorkbook(t *testing.T, path string, rows ...[]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := make([]any, 0, len(fullHeader()))
	for _, h := range fullHeader() {
		header = append(header, h)
	}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "YE24 Oculus SG.xlsx")
	writeWorkbook(t, in,
		[]any{"100", "7", "Chick-fil-A"},
		[]any{"101", "7", "Chick-fil-A"},
		[]any{},
	)

	db := dbtest.Open(t)
	res, err := Run(context.Background(), Options{Input: in, OutputDir: filepath.Join(dir, "out"), Loader: NewLoader(db, quietLog())}, quietLog())
	if err != nil {
		t.Fatal(err)
	}
	if res.Year != 2024 || res.Locations != 2 || res.Trends != 2 {
		t.Errorf("result = %+v", res)
	}
	if res.Load == nil || res.Load.Locations != 2 {
		t.Errorf("load = %+v", res.Load)
	}
	if _, err := os.Stat(res.Files.Trends); err != nil {
		t.Errorf("trends csv: %v", err)
	}
}

func TestRunRejectsBadName(t *testing.T) {
	_, err := Run(context.Background(), Options{Input: "trends.xlsx", OutputDir: t.TempDir()}, quietLog())
	if !errors.Is(err, ErrNoYear) {
		t.Fatalf("err = %v", err)
	}
}
