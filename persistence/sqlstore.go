package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// SQLStore keeps save slots in a SQLite database. Ants get one row each so
// they can be inspected with plain SQL; the rest of the snapshot is a zstd
// compressed JSON payload.
type SQLStore struct {
	conn *sqlx.DB
}

// OpenSQLStore opens or creates a SQLite database at the given path.
func OpenSQLStore(path string) (*SQLStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}

func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		name TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		colony_age REAL NOT NULL,
		colony_day INTEGER NOT NULL,
		population INTEGER NOT NULL,
		phase TEXT NOT NULL,
		version TEXT NOT NULL,
		format INTEGER NOT NULL,
		payload BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS save_ants (
		save_name TEXT NOT NULL,
		id INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		state TEXT NOT NULL,
		target_x REAL NOT NULL,
		target_y REAL NOT NULL,
		has_target INTEGER NOT NULL,
		speed REAL NOT NULL,
		base_speed REAL NOT NULL,
		home_x REAL NOT NULL,
		home_y REAL NOT NULL,
		state_timer REAL NOT NULL,
		age REAL NOT NULL,
		max_age REAL NOT NULL,
		energy REAL NOT NULL,
		max_energy REAL NOT NULL,
		carried_food REAL NOT NULL,
		age_group INTEGER NOT NULL,
		role INTEGER NOT NULL,
		PRIMARY KEY (save_name, id)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type saveRow struct {
	Name       string  `db:"name"`
	ID         string  `db:"id"`
	CreatedAt  int64   `db:"created_at"`
	Tick       int64   `db:"tick"`
	ColonyAge  float64 `db:"colony_age"`
	ColonyDay  int     `db:"colony_day"`
	Population int     `db:"population"`
	Phase      string  `db:"phase"`
	Version    string  `db:"version"`
	Format     int     `db:"format"`
	Payload    []byte  `db:"payload"`
}

func (r *saveRow) metadata() Metadata {
	return Metadata{
		ID:         r.ID,
		SaveName:   r.Name,
		CreatedAt:  time.Unix(0, r.CreatedAt).UTC(),
		ColonyAge:  r.ColonyAge,
		ColonyDay:  r.ColonyDay,
		Population: r.Population,
		Phase:      r.Phase,
		Version:    r.Version,
	}
}

// Save writes data under its save name, replacing the slot and its ant rows
// in one transaction.
func (s *SQLStore) Save(data *SaveData) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	name := data.Metadata.SaveName
	if name == "" {
		return errors.New("empty save name")
	}

	rest := *data
	rest.Ants = nil
	payload, err := compressJSON(&rest)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	m := data.Metadata
	_, err = tx.NamedExec(`
		INSERT INTO saves (name, id, created_at, tick, colony_age, colony_day, population, phase, version, format, payload)
		VALUES (:name, :id, :created_at, :tick, :colony_age, :colony_day, :population, :phase, :version, :format, :payload)
		ON CONFLICT(name) DO UPDATE SET
			id = excluded.id, created_at = excluded.created_at, tick = excluded.tick,
			colony_age = excluded.colony_age, colony_day = excluded.colony_day,
			population = excluded.population, phase = excluded.phase,
			version = excluded.version, format = excluded.format, payload = excluded.payload`,
		&saveRow{
			Name:       name,
			ID:         m.ID,
			CreatedAt:  m.CreatedAt.UnixNano(),
			Tick:       data.Clock.Ticks,
			ColonyAge:  m.ColonyAge,
			ColonyDay:  m.ColonyDay,
			Population: m.Population,
			Phase:      m.Phase,
			Version:    m.Version,
			Format:     data.Format,
			Payload:    payload,
		})
	if err != nil {
		return fmt.Errorf("upsert save %s: %w", name, err)
	}

	if _, err := tx.Exec("DELETE FROM save_ants WHERE save_name = ?", name); err != nil {
		return fmt.Errorf("clear ants: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO save_ants (
		save_name, id, x, y, state, target_x, target_y, has_target, speed, base_speed,
		home_x, home_y, state_timer, age, max_age, energy, max_energy, carried_food, age_group, role
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, a := range data.Ants {
		_, err := stmt.Exec(
			name, a.ID, a.X, a.Y, a.State, a.TargetX, a.TargetY, a.HasTarget, a.Speed, a.BaseSpeed,
			a.HomeX, a.HomeY, a.StateTimer, a.Age, a.MaxAge, a.Energy, a.MaxEnergy, a.CarriedFood,
			a.AgeGroup, a.Role,
		)
		if err != nil {
			return fmt.Errorf("insert ant %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("save written", "name", name, "ants", len(data.Ants), "payload_bytes", len(payload))
	return nil
}

// Load reads and validates the named save.
func (s *SQLStore) Load(name string) (*SaveData, error) {
	var row saveRow
	err := s.conn.Get(&row, "SELECT * FROM saves WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if row.Format != FormatVersion {
		return nil, fmt.Errorf("load %s: unsupported save format %d", name, row.Format)
	}

	data := &SaveData{}
	if err := decompressJSON(row.Payload, data); err != nil {
		return nil, fmt.Errorf("load %s: decode payload: %w", name, err)
	}

	var ants []AntRecord
	err = s.conn.Select(&ants, `SELECT id, x, y, state, target_x, target_y, has_target, speed, base_speed,
		home_x, home_y, state_timer, age, max_age, energy, max_energy, carried_food, age_group, role
		FROM save_ants WHERE save_name = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("load %s ants: %w", name, err)
	}
	data.Ants = ants

	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

// List returns the metadata of every save, newest first.
func (s *SQLStore) List() ([]Metadata, error) {
	var rows []saveRow
	err := s.conn.Select(&rows, `SELECT name, id, created_at, tick, colony_age, colony_day, population, phase, version, format
		FROM saves ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]Metadata, len(rows))
	for i := range rows {
		out[i] = rows[i].metadata()
	}
	return out, nil
}

// Delete removes the named save and its ant rows.
func (s *SQLStore) Delete(name string) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM saves WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", name, ErrNotFound)
	}
	if _, err := tx.Exec("DELETE FROM save_ants WHERE save_name = ?", name); err != nil {
		return fmt.Errorf("delete %s ants: %w", name, err)
	}
	return tx.Commit()
}

func compressJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func decompressJSON(blob []byte, v any) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
