package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// LoadJSON reads lots from a JSON array of flat objects. Keys go through the
// same column mapping as CSV headers.
func LoadJSON(r io.Reader, mapping ColumnMapping) ([]pricing.Lot, error) {
	var records []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding JSON lots: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	keySet := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			keySet[key] = struct{}{}
		}
	}
	header := make([]string, 0, len(keySet))
	for key := range keySet {
		header = append(header, key)
	}
	sort.Strings(header)

	idx, err := mapping.resolve(header)
	if err != nil {
		return nil, err
	}

	lots := make([]pricing.Lot, 0, len(records))
	for i, record := range records {
		row := make([]string, len(header))
		for col, key := range header {
			row[col] = stringify(record[key])
		}
		lot, err := idx.toLot(row)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
