package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"thermostat_dashboard/internal/models"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `
		INSERT INTO thermostat_readings (id, ts, ambient_c, humidity_pct, heat_c, cool_c, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	// newest N rows, returned oldest first
	selectLatestReadingsSQL = `
		SELECT ts, ambient_c, humidity_pct, heat_c, cool_c, mode FROM (
			SELECT ts, ambient_c, humidity_pct, heat_c, cool_c, mode
			FROM thermostat_readings ORDER BY ts DESC LIMIT ?
		) ORDER BY ts ASC
	`

	pruneReadingsSQL = `DELETE FROM thermostat_readings WHERE ts < ?`
)

var errInvalidLimit = errors.New("limit must be > 0")

// nullable stores absent and sentinel readings as NULL.
func nullable(v *float64) sql.NullFloat64 {
	if !models.Present(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return models.Float(n.Float64)
}

// Append stores one reading. A zero timestamp is set to now (UTC).
func (r *ReadingSQLite) Append(ctx context.Context, rec models.TelemetryRecord) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var mode sql.NullString
	if rec.Mode != "" {
		mode = sql.NullString{String: rec.Mode, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		uuid.NewString(),
		ts.UTC(),
		nullable(rec.AmbientTemperatureC),
		nullable(rec.AmbientHumidityPct),
		nullable(rec.HeatSetpointC),
		nullable(rec.CoolSetpointC),
		mode,
	)
	return err
}

// Latest returns up to limit most recent readings in chronological order.
func (r *ReadingSQLite) Latest(ctx context.Context, limit int) ([]models.TelemetryRecord, error) {
	if limit <= 0 {
		return nil, errInvalidLimit
	}

	rows, err := r.db.QueryContext(ctx, selectLatestReadingsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.TelemetryRecord, 0, limit)
	for rows.Next() {
		var (
			rec                      models.TelemetryRecord
			ambient, hum, heat, cool sql.NullFloat64
			mode                     sql.NullString
		)
		if err := rows.Scan(&rec.Timestamp, &ambient, &hum, &heat, &cool, &mode); err != nil {
			return nil, err
		}
		rec.Timestamp = rec.Timestamp.UTC()
		rec.AmbientTemperatureC = fromNullable(ambient)
		rec.AmbientHumidityPct = fromNullable(hum)
		rec.HeatSetpointC = fromNullable(heat)
		rec.CoolSetpointC = fromNullable(cool)
		rec.Mode = mode.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Prune deletes readings older than before and reports how many went.
func (r *ReadingSQLite) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pruneReadingsSQL, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
