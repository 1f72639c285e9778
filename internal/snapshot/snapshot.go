// Package snapshot persists the raw vehicles of a run so the curation can be
// replayed later without asking the upstream again.
package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"yotagrabber/internal/inventory"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Path is where the raw snapshot of a model lives under dir.
func Path(dir, model string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_raw.db", model))
}

func open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Save replaces the snapshot at path with vehicles, keeping their order.
func Save(ctx context.Context, path string, vehicles []inventory.RawVehicle) error {
	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return err
	}

	db, err := open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from raw_vehicle")
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "insert into raw_vehicle(seq, vin, payload) values (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, vehicle := range vehicles {
		payload, err := json.Marshal(vehicle)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", vehicle.VIN, err)
		}
		_, err = stmt.ExecContext(ctx, i, vehicle.VIN, string(payload))
		if err != nil {
			return fmt.Errorf("insert %s: %w", vehicle.VIN, err)
		}
	}

	return tx.Commit()
}

// Load reads a snapshot back in the order it was saved. A missing snapshot
// is reported as os.ErrNotExist.
func Load(ctx context.Context, path string) ([]inventory.RawVehicle, error) {
	_, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	db, err := open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "select payload from raw_vehicle order by seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []inventory.RawVehicle
	for rows.Next() {
		var payload string
		err = rows.Scan(&payload)
		if err != nil {
			return nil, err
		}
		var vehicle inventory.RawVehicle
		err = json.Unmarshal([]byte(payload), &vehicle)
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot row: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}
