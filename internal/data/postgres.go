package data

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"energiesystem-sim/internal/simerr"
)

// PostgresStore persists parsed historical tables in a Postgres-backed
// key-value table so a scenario run over the same historical files does not
// re-parse CSV on every invocation. It is opt-in: EngineConfig.DataDir set
// to a "postgres://" DSN selects it instead of CSVStore. A cache miss falls
// through to csvFallback, parses the file, and populates the row.
type PostgresStore struct {
	db          *sql.DB
	csvFallback CSVStore
}

// NewPostgresStore opens dsn and ensures the backing table exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres store: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS historical_table_cache (
		path TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("provisioning historical_table_cache: %w", err)
	}
	return &PostgresStore{db: db, csvFallback: CSVStore{}}, nil
}

func (p *PostgresStore) lookup(path, kind string, dest any) (bool, error) {
	var payload []byte
	err := p.db.QueryRow(`SELECT payload FROM historical_table_cache WHERE path = $1 AND kind = $2`, path, kind).Scan(&payload)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("querying historical_table_cache: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decoding cached table for %s: %w", path, simerr.ErrDataUnavailable)
	}
	return true, nil
}

func (p *PostgresStore) store(path, kind string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding table for %s: %w", path, err)
	}
	_, err = p.db.Exec(`INSERT INTO historical_table_cache (path, kind, payload) VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE SET kind = EXCLUDED.kind, payload = EXCLUDED.payload`, path, kind, payload)
	return err
}

func (p *PostgresStore) LoadGenerationTable(path string) (*GenerationTable, error) {
	var t GenerationTable
	if ok, err := p.lookup(path, "generation", &t); err != nil {
		return nil, err
	} else if ok {
		return &t, nil
	}
	fresh, err := p.csvFallback.LoadGenerationTable(path)
	if err != nil {
		return nil, err
	}
	_ = p.store(path, "generation", fresh)
	return fresh, nil
}

func (p *PostgresStore) LoadCapacityTable(path string) (*CapacityTable, error) {
	var t CapacityTable
	if ok, err := p.lookup(path, "capacity", &t); err != nil {
		return nil, err
	} else if ok {
		return &t, nil
	}
	fresh, err := p.csvFallback.LoadCapacityTable(path)
	if err != nil {
		return nil, err
	}
	_ = p.store(path, "capacity", fresh)
	return fresh, nil
}

func (p *PostgresStore) LoadTemperatureSeries(path string) (*TemperatureSeries, error) {
	var t TemperatureSeries
	if ok, err := p.lookup(path, "temperature", &t); err != nil {
		return nil, err
	} else if ok {
		return &t, nil
	}
	fresh, err := p.csvFallback.LoadTemperatureSeries(path)
	if err != nil {
		return nil, err
	}
	_ = p.store(path, "temperature", fresh)
	return fresh, nil
}

func (p *PostgresStore) LoadBDEWProfile(path, sector string) (*BDEWProfile, error) {
	var t BDEWProfile
	if ok, err := p.lookup(path+":"+sector, "bdew", &t); err != nil {
		return nil, err
	} else if ok {
		return &t, nil
	}
	fresh, err := p.csvFallback.LoadBDEWProfile(path, sector)
	if err != nil {
		return nil, err
	}
	_ = p.store(path+":"+sector, "bdew", fresh)
	return fresh, nil
}

func (p *PostgresStore) LoadHeatPumpMatrix(path string) (*HeatPumpMatrix, error) {
	var t HeatPumpMatrix
	if ok, err := p.lookup(path, "heatpump", &t); err != nil {
		return nil, err
	} else if ok {
		return &t, nil
	}
	fresh, err := p.csvFallback.LoadHeatPumpMatrix(path)
	if err != nil {
		return nil, err
	}
	_ = p.store(path, "heatpump", fresh)
	return fresh, nil
}
