package restauranttrend

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoYear is returned when the workbook name does not start with YE##.
var ErrNoYear = errors.New("could not extract year from filename, expected pattern YE##*.xlsx")

var yearPattern = regexp.MustCompile(`(?i)^YE(\d{2})`)

// YearFromFilename maps "YE24 Oculus SG.xlsx" to 2024. Directories are ignored.
func YearFromFilename(path string) (int, error) {
	m := yearPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoYear, filepath.Base(path))
	}
	yy, _ := strconv.Atoi(m[1])
	return 2000 + yy, nil
}

// BaseName is the file name without directory or extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Cell values arrive as text. Empty cells and unparseable values become nil.

func text(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func number(v string) *float64 {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func integer(v string) *int {
	f := number(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// ValidCoordinates reports whether the pair is inside the lat/long ranges.
// A missing coordinate is valid.
func ValidCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return true
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}
