package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abarman/water-health-watch/internal/models"
)

// SQLiteDB implements Store over a single SQLite file. Timestamps are
// persisted as unix nanoseconds so window queries compare integers.
type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite is single-writer; let database/sql serialize conflicting writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS water_readings (
			id TEXT PRIMARY KEY,
			sensor_id TEXT NOT NULL,
			location TEXT NOT NULL,
			ph REAL NOT NULL,
			turbidity REAL NOT NULL,
			contamination_level REAL NOT NULL,
			temperature REAL,
			timestamp INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS health_cases (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			location TEXT NOT NULL,
			symptoms TEXT NOT NULL,
			disease TEXT,
			severity TEXT NOT NULL,
			age INTEGER,
			gender TEXT,
			reported_by TEXT,
			timestamp INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			severity TEXT NOT NULL,
			location TEXT NOT NULL,
			message TEXT NOT NULL,
			prediction BLOB,
			is_active INTEGER NOT NULL DEFAULT 1,
			timestamp INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_water_readings_timestamp ON water_readings(timestamp);
		CREATE INDEX IF NOT EXISTS idx_water_readings_location ON water_readings(location);
		CREATE INDEX IF NOT EXISTS idx_health_cases_timestamp ON health_cases(timestamp);
		CREATE INDEX IF NOT EXISTS idx_health_cases_location ON health_cases(location);
		CREATE INDEX IF NOT EXISTS idx_alerts_active_timestamp ON alerts(is_active, timestamp);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorageUnavailable, err))
}

func (s *SQLiteDB) AddWaterReading(ctx context.Context, r *models.WaterReading) error {
	var temp sql.NullFloat64
	if r.Temperature != nil {
		temp = sql.NullFloat64{Float64: *r.Temperature, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO water_readings (id, sensor_id, location, ph, turbidity, contamination_level, temperature, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SensorID, r.Location, r.PH, r.Turbidity, r.ContaminationLevel, temp, r.Timestamp.UnixNano())
	if err != nil {
		return storeErr("error adding water reading", err)
	}
	return nil
}

func (s *SQLiteDB) ListWaterReadings(ctx context.Context, opts Filter) ([]models.WaterReading, error) {
	query := `SELECT id, sensor_id, location, ph, turbidity, contamination_level, temperature, timestamp FROM water_readings`
	where, args := buildWhere(opts)
	query += where + ` ORDER BY timestamp DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("error listing water readings", err)
	}
	defer rows.Close()

	var readings []models.WaterReading
	for rows.Next() {
		r, err := scanWaterReading(rows)
		if err != nil {
			return nil, storeErr("error scanning water reading", err)
		}
		readings = append(readings, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating water readings", err)
	}
	return readings, nil
}

func (s *SQLiteDB) LatestWaterReading(ctx context.Context) (*models.WaterReading, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sensor_id, location, ph, turbidity, contamination_level, temperature, timestamp
		FROM water_readings ORDER BY timestamp DESC LIMIT 1`)

	r, err := scanWaterReading(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("error fetching latest water reading", err)
	}
	return r, nil
}

func (s *SQLiteDB) DistinctSensorsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT sensor_id) FROM water_readings WHERE timestamp >= ?`,
		since.UnixNano()).Scan(&count)
	if err != nil {
		return 0, storeErr("error counting distinct sensors", err)
	}
	return count, nil
}

// WaterQualityAverages returns nil when no readings fall inside the window,
// never zeroed averages.
func (s *SQLiteDB) WaterQualityAverages(ctx context.Context, since time.Time) (*models.AvgWaterQuality, error) {
	var avgPH, avgTurbidity sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(ph), AVG(turbidity) FROM water_readings WHERE timestamp >= ?`,
		since.UnixNano()).Scan(&avgPH, &avgTurbidity)
	if err != nil {
		return nil, storeErr("error averaging water quality", err)
	}
	if !avgPH.Valid || !avgTurbidity.Valid {
		return nil, nil
	}
	return &models.AvgWaterQuality{
		AvgPH:        avgPH.Float64,
		AvgTurbidity: avgTurbidity.Float64,
	}, nil
}

func (s *SQLiteDB) AddHealthCase(ctx context.Context, hc *models.HealthCase) error {
	symptoms, err := json.Marshal(models.DedupSymptoms(hc.Symptoms))
	if err != nil {
		return fmt.Errorf("error encoding symptoms: %w", err)
	}

	var age sql.NullInt64
	if hc.Age != nil {
		age = sql.NullInt64{Int64: int64(*hc.Age), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO health_cases (id, patient_id, location, symptoms, disease, severity, age, gender, reported_by, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		hc.ID, hc.PatientID, hc.Location, string(symptoms), hc.Disease, string(hc.Severity),
		age, hc.Gender, hc.ReportedBy, hc.Timestamp.UnixNano())
	if err != nil {
		return storeErr("error adding health case", err)
	}
	return nil
}

func (s *SQLiteDB) ListHealthCases(ctx context.Context, opts Filter) ([]models.HealthCase, error) {
	query := `SELECT id, patient_id, location, symptoms, disease, severity, age, gender, reported_by, timestamp FROM health_cases`
	where, args := buildWhere(opts)
	query += where + ` ORDER BY timestamp DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("error listing health cases", err)
	}
	defer rows.Close()

	var cases []models.HealthCase
	for rows.Next() {
		var (
			hc       models.HealthCase
			symptoms string
			severity string
			age      sql.NullInt64
			ts       int64
		)
		if err := rows.Scan(&hc.ID, &hc.PatientID, &hc.Location, &symptoms, &hc.Disease,
			&severity, &age, &hc.Gender, &hc.ReportedBy, &ts); err != nil {
			return nil, storeErr("error scanning health case", err)
		}
		if err := json.Unmarshal([]byte(symptoms), &hc.Symptoms); err != nil {
			return nil, fmt.Errorf("error decoding symptoms for case %s: %w", hc.ID, err)
		}
		hc.Severity = models.CaseSeverity(severity)
		if age.Valid {
			a := int(age.Int64)
			hc.Age = &a
		}
		hc.Timestamp = time.Unix(0, ts)
		cases = append(cases, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating health cases", err)
	}
	return cases, nil
}

func (s *SQLiteDB) CountCasesSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM health_cases WHERE timestamp >= ?`,
		since.UnixNano()).Scan(&count)
	if err != nil {
		return 0, storeErr("error counting health cases", err)
	}
	return count, nil
}

func (s *SQLiteDB) AddAlert(ctx context.Context, a *models.Alert) error {
	var prediction []byte
	if len(a.Prediction) > 0 {
		prediction = a.Prediction
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, type, severity, location, message, prediction, is_active, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Type), string(a.Severity), a.Location, a.Message, prediction,
		boolToInt(a.IsActive), a.Timestamp.UnixNano())
	if err != nil {
		return storeErr("error adding alert", err)
	}
	return nil
}

func (s *SQLiteDB) ListActiveAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	query := `SELECT id, type, severity, location, message, prediction, is_active, timestamp
		FROM alerts WHERE is_active = 1 ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("error listing active alerts", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var (
			a          models.Alert
			alertType  string
			severity   string
			prediction []byte
			active     int
			ts         int64
		)
		if err := rows.Scan(&a.ID, &alertType, &severity, &a.Location, &a.Message,
			&prediction, &active, &ts); err != nil {
			return nil, storeErr("error scanning alert", err)
		}
		a.Type = models.AlertType(alertType)
		a.Severity = models.AlertSeverity(severity)
		if len(prediction) > 0 {
			a.Prediction = json.RawMessage(prediction)
		}
		a.IsActive = active != 0
		a.Timestamp = time.Unix(0, ts)
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating alerts", err)
	}
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWaterReading(row rowScanner) (*models.WaterReading, error) {
	var (
		r    models.WaterReading
		temp sql.NullFloat64
		ts   int64
	)
	if err := row.Scan(&r.ID, &r.SensorID, &r.Location, &r.PH, &r.Turbidity,
		&r.ContaminationLevel, &temp, &ts); err != nil {
		return nil, err
	}
	if temp.Valid {
		t := temp.Float64
		r.Temperature = &t
	}
	r.Timestamp = time.Unix(0, ts)
	return &r, nil
}

func buildWhere(opts Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if opts.Location != nil {
		clauses = append(clauses, "location = ?")
		args = append(args, *opts.Location)
	}
	if opts.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, opts.Since.UnixNano())
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
