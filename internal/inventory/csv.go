package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// LoadCSV reads lots from a CSV export with a header row. Blank rows are
// skipped and every other row must describe a lot.
func LoadCSV(r io.Reader, mapping ColumnMapping) ([]pricing.Lot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV source")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	idx, err := mapping.resolve(header)
	if err != nil {
		return nil, err
	}

	var lots []pricing.Lot
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if blank(row) {
			continue
		}
		lot, err := idx.toLot(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
