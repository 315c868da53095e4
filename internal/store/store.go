// Package store persists fitted runs (observed data columns, per-component
// parameters and weights) in a SQLite results database written by the
// fitting pipeline and read back by the render CLI.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/streamviz/internal/monitoring"
	"github.com/banshee-data/streamviz/internal/stream"
)

type Store struct {
	*sql.DB
}

// Open opens (creating if needed) a results database at path and ensures the
// baseline schema exists. Versioned changes beyond the baseline are managed
// by the migrate layer.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS observations (
			run_id       TEXT NOT NULL,
			coord        TEXT NOT NULL,
			idx          INTEGER NOT NULL,
			value        DOUBLE NOT NULL,
			PRIMARY KEY (run_id, coord, idx),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS params (
			run_id       TEXT NOT NULL,
			component    TEXT NOT NULL,
			coord        TEXT NOT NULL,
			param        TEXT NOT NULL,
			idx          INTEGER NOT NULL,
			value        DOUBLE NOT NULL,
			PRIMARY KEY (run_id, component, coord, param, idx),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS weights (
			run_id       TEXT NOT NULL,
			component    TEXT NOT NULL,
			idx          INTEGER NOT NULL,
			value        DOUBLE NOT NULL,
			PRIMARY KEY (run_id, component, idx),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise results schema: %w", err)
	}

	return &Store{db}, nil
}

// ImportRun stores a run under a freshly minted ID and returns it.
func (s *Store) ImportRun(data *stream.Data, mpars stream.Params) (string, error) {
	runID := uuid.New().String()
	if err := s.SaveRun(runID, data, mpars); err != nil {
		return "", err
	}
	return runID, nil
}

// SaveRun stores a run under the given ID.
func (s *Store) SaveRun(runID string, data *stream.Data, mpars stream.Params) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO runs (run_id) VALUES (?)", runID); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	for _, coord := range data.Columns() {
		vals, err := data.Column(coord)
		if err != nil {
			return err
		}
		for i, v := range vals {
			if _, err := tx.Exec(
				"INSERT INTO observations (run_id, coord, idx, value) VALUES (?, ?, ?, ?)",
				runID, coord, i, v,
			); err != nil {
				return fmt.Errorf("insert observation %s[%d]: %w", coord, i, err)
			}
		}
	}

	for component, cp := range mpars {
		for coord, cps := range cp.Coords {
			for param, vals := range cps {
				for i, v := range vals {
					if _, err := tx.Exec(
						"INSERT INTO params (run_id, component, coord, param, idx, value) VALUES (?, ?, ?, ?, ?, ?)",
						runID, component, coord, param, i, v,
					); err != nil {
						return fmt.Errorf("insert param %s.%s.%s[%d]: %w", component, coord, param, i, err)
					}
				}
			}
		}
		for i, v := range cp.Weight {
			if _, err := tx.Exec(
				"INSERT INTO weights (run_id, component, idx, value) VALUES (?, ?, ?, ?)",
				runID, component, i, v,
			); err != nil {
				return fmt.Errorf("insert weight %s[%d]: %w", component, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", runID, err)
	}
	monitoring.Debugf("stored run %s (%d rows)", runID, data.Len())
	return nil
}

// LoadRun reads a run's data table and parameter set back.
func (s *Store) LoadRun(runID string) (*stream.Data, stream.Params, error) {
	var exists int
	if err := s.QueryRow("SELECT COUNT(*) FROM runs WHERE run_id = ?", runID).Scan(&exists); err != nil {
		return nil, nil, err
	}
	if exists == 0 {
		return nil, nil, fmt.Errorf("no run %q in results store", runID)
	}

	columns := map[string][]float64{}
	rows, err := s.Query(
		"SELECT coord, value FROM observations WHERE run_id = ? ORDER BY coord, idx", runID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var coord string
		var value float64
		if err := rows.Scan(&coord, &value); err != nil {
			return nil, nil, err
		}
		columns[coord] = append(columns[coord], value)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	data, err := stream.NewData(columns)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s observations: %w", runID, err)
	}

	mpars := stream.Params{}
	prows, err := s.Query(
		"SELECT component, coord, param, value FROM params WHERE run_id = ? ORDER BY component, coord, param, idx", runID)
	if err != nil {
		return nil, nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var component, coord, param string
		var value float64
		if err := prows.Scan(&component, &coord, &param, &value); err != nil {
			return nil, nil, err
		}
		cp, ok := mpars[component]
		if !ok {
			cp = stream.ComponentParams{Coords: map[string]stream.CoordParams{}}
		}
		if cp.Coords[coord] == nil {
			cp.Coords[coord] = stream.CoordParams{}
		}
		cp.Coords[coord][param] = append(cp.Coords[coord][param], value)
		mpars[component] = cp
	}
	if err := prows.Err(); err != nil {
		return nil, nil, err
	}

	wrows, err := s.Query(
		"SELECT component, value FROM weights WHERE run_id = ? ORDER BY component, idx", runID)
	if err != nil {
		return nil, nil, err
	}
	defer wrows.Close()
	for wrows.Next() {
		var component string
		var value float64
		if err := wrows.Scan(&component, &value); err != nil {
			return nil, nil, err
		}
		cp := mpars[component]
		if cp.Coords == nil {
			cp.Coords = map[string]stream.CoordParams{}
		}
		cp.Weight = append(cp.Weight, value)
		mpars[component] = cp
	}
	if err := wrows.Err(); err != nil {
		return nil, nil, err
	}

	return data, mpars, nil
}

// ListRuns returns stored run IDs, newest first.
func (s *Store) ListRuns() ([]string, error) {
	rows, err := s.Query("SELECT run_id FROM runs ORDER BY created_at DESC, run_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}
