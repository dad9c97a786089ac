package restauranttrend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one data row keyed by workbook header.
type Record map[string]string

func (r Record) blank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Sheet is the first worksheet of a workbook.
type Sheet struct {
	Name    string
	Header  []string
	Records []Record
}

// ReadWorkbook loads the first sheet of the workbook at path. The first row is
// the header; short rows are padded with empty cells.
func ReadWorkbook(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", name)
	}

	s := &Sheet{Name: name}
	for _, h := range rows[0] {
		s.Header = append(s.Header, strings.TrimSpace(h))
	}
	for _, row := range rows[1:] {
		rec := make(Record, len(s.Header))
		for i, h := range s.Header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		s.Records = append(s.Records, rec)
	}
	return s, nil
}
