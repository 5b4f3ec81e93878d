package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registered drivers for SQLStore.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// Supported SQL drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// SQLStore persists lots and their tier prices in SQLite or MySQL.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenStore opens a store for the given driver and data source name.
func OpenStore(driver, dsn string) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			_ = db.Close()
			return nil, err
		}
		if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error { return s.db.Close() }

// EnsureSchema creates the lots and lot_prices tables when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	statements := []string{`
CREATE TABLE IF NOT EXISTS lots (
  lot_number INTEGER PRIMARY KEY,
  land_area_m2 REAL NOT NULL,
  construction_area_m2 REAL NOT NULL DEFAULT 0,
  status VARCHAR(16) NOT NULL DEFAULT 'Available',
  buyer VARCHAR(255) NOT NULL DEFAULT ''
)`, `
CREATE TABLE IF NOT EXISTS lot_prices (
  lot_number INTEGER NOT NULL,
  tier INTEGER NOT NULL,
  price REAL NOT NULL,
  PRIMARY KEY (lot_number, tier),
  FOREIGN KEY (lot_number) REFERENCES lots(lot_number)
)`}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) upsertLotSQL() string {
	if s.driver == DriverMySQL {
		return `
INSERT INTO lots (lot_number, land_area_m2, construction_area_m2, status, buyer)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE land_area_m2 = VALUES(land_area_m2),
  construction_area_m2 = VALUES(construction_area_m2),
  status = VALUES(status), buyer = VALUES(buyer)`
	}
	return `
INSERT INTO lots (lot_number, land_area_m2, construction_area_m2, status, buyer)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(lot_number) DO UPDATE SET land_area_m2 = excluded.land_area_m2,
  construction_area_m2 = excluded.construction_area_m2,
  status = excluded.status, buyer = excluded.buyer`
}

func (s *SQLStore) upsertPriceSQL() string {
	if s.driver == DriverMySQL {
		return `
INSERT INTO lot_prices (lot_number, tier, price) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE price = VALUES(price)`
	}
	return `
INSERT INTO lot_prices (lot_number, tier, price) VALUES (?, ?, ?)
ON CONFLICT(lot_number, tier) DO UPDATE SET price = excluded.price`
}

// UpsertLots writes lots and their tier prices in one transaction.
func (s *SQLStore) UpsertLots(ctx context.Context, lots []pricing.Lot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	lotStmt, err := tx.PrepareContext(ctx, s.upsertLotSQL())
	if err != nil {
		return err
	}
	defer lotStmt.Close()

	priceStmt, err := tx.PrepareContext(ctx, s.upsertPriceSQL())
	if err != nil {
		return err
	}
	defer priceStmt.Close()

	for _, lot := range lots {
		status := lot.Status
		if status == "" {
			status = pricing.StatusAvailable
		}
		if _, err := lotStmt.ExecContext(ctx, lot.Number, lot.LandAreaM2, lot.ConstructionAreaM2, string(status), lot.Buyer); err != nil {
			return fmt.Errorf("lot %d: %w", lot.Number, err)
		}
		for tier, price := range lot.TierPrices {
			if _, err := priceStmt.ExecContext(ctx, lot.Number, tier, price); err != nil {
				return fmt.Errorf("lot %d tier %d: %w", lot.Number, tier, err)
			}
		}
	}
	return tx.Commit()
}

// ListLots returns every stored lot ordered by number.
func (s *SQLStore) ListLots(ctx context.Context) ([]pricing.Lot, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT lot_number, land_area_m2, construction_area_m2, status, buyer
FROM lots ORDER BY lot_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []pricing.Lot
	byNumber := make(map[int]int)
	for rows.Next() {
		var lot pricing.Lot
		var status string
		if err := rows.Scan(&lot.Number, &lot.LandAreaM2, &lot.ConstructionAreaM2, &status, &lot.Buyer); err != nil {
			return nil, err
		}
		lot.Status = pricing.Status(status)
		lot.TierPrices = make(map[int]float64)
		byNumber[lot.Number] = len(lots)
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	priceRows, err := s.db.QueryContext(ctx, `SELECT lot_number, tier, price FROM lot_prices`)
	if err != nil {
		return nil, err
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var number, tier int
		var price float64
		if err := priceRows.Scan(&number, &tier, &price); err != nil {
			return nil, err
		}
		if i, ok := byNumber[number]; ok {
			lots[i].TierPrices[tier] = price
		}
	}
	return lots, priceRows.Err()
}

// GetLot returns a single lot. The boolean is false when it does not exist.
func (s *SQLStore) GetLot(ctx context.Context, number int) (pricing.Lot, bool, error) {
	lot := pricing.Lot{Number: number, TierPrices: make(map[int]float64)}
	var status string
	err := s.db.QueryRowContext(ctx, `
SELECT land_area_m2, construction_area_m2, status, buyer FROM lots WHERE lot_number = ?`, number).
		Scan(&lot.LandAreaM2, &lot.ConstructionAreaM2, &status, &lot.Buyer)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Lot{}, false, nil
	}
	if err != nil {
		return pricing.Lot{}, false, err
	}
	lot.Status = pricing.Status(status)

	rows, err := s.db.QueryContext(ctx, `SELECT tier, price FROM lot_prices WHERE lot_number = ?`, number)
	if err != nil {
		return pricing.Lot{}, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var tier int
		var price float64
		if err := rows.Scan(&tier, &price); err != nil {
			return pricing.Lot{}, false, err
		}
		lot.TierPrices[tier] = price
	}
	return lot, true, rows.Err()
}

// Count returns the number of stored lots.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lots`).Scan(&n)
	return n, err
}
