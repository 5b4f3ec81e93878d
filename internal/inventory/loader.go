package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// Source formats recognised by Load.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Load reads lots from opts.Source, marks presold lots and returns the
// result. The driver is taken from opts.Driver or inferred from the file
// extension: .csv, .json, .db, .sqlite and .sqlite3. Every failure is a
// *LoadError.
func Load(ctx context.Context, opts Options) ([]pricing.Lot, error) {
	if opts.Source == "" {
		return nil, &LoadError{Source: "<none>", Err: errors.New("no inventory source configured")}
	}

	driver := opts.Driver
	if driver == "" {
		driver = inferDriver(opts.Source)
	}

	lots, err := loadFrom(ctx, driver, opts)
	if err != nil {
		return nil, &LoadError{Source: opts.Source, Err: err}
	}
	if len(lots) == 0 {
		return nil, &LoadError{Source: opts.Source, Err: errors.New("source contains no lots")}
	}

	ApplyPresold(lots, opts.Presold)
	return lots, nil
}

func loadFrom(ctx context.Context, driver string, opts Options) ([]pricing.Lot, error) {
	switch driver {
	case FormatCSV, FormatJSON:
		f, err := os.Open(opts.Source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if driver == FormatCSV {
			return LoadCSV(f, opts.Columns)
		}
		return LoadJSON(f, opts.Columns)
	case DriverSQLite, DriverMySQL:
		if driver == DriverSQLite {
			if _, err := os.Stat(opts.Source); err != nil {
				return nil, err
			}
		}
		store, err := OpenStore(driver, opts.Source)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.ListLots(ctx)
	default:
		return nil, fmt.Errorf("unsupported inventory driver %q", driver)
	}
}

func inferDriver(source string) string {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return FormatJSON
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite
	default:
		return FormatCSV
	}
}
