package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"thermostat_dashboard/internal/models"

	"github.com/google/uuid"
)

type CycleSQLite struct {
	db *sql.DB
}

func NewCycleSQLite(db *sql.DB) *CycleSQLite { return &CycleSQLite{db: db} }

const insertCycleSQL = `
		INSERT INTO render_cycles (id, started_at, finished_at, unit, status, error, points)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

// Append inserts a cycle. Missing ID and timestamps are filled in.
func (r *CycleSQLite) Append(ctx context.Context, c models.RenderCycle) error {
	if c.CycleID == "" {
		c.CycleID = uuid.NewString()
	}
	if c.FinishedAt.IsZero() {
		c.FinishedAt = time.Now().UTC()
	}
	if c.StartedAt.IsZero() {
		c.StartedAt = c.FinishedAt
	}

	var errPtr *string
	if c.Error != "" {
		errPtr = &c.Error
	}

	var pointsPtr *string
	if len(c.Points) > 0 {
		if b, err := json.Marshal(c.Points); err == nil {
			s := string(b)
			pointsPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertCycleSQL,
		c.CycleID,
		c.StartedAt.UTC(),
		c.FinishedAt.UTC(),
		string(c.Unit),
		strings.ToUpper(strings.TrimSpace(string(c.Status))),
		errPtr,
		pointsPtr,
	)
	return err
}

// List returns cycles started within [from, to] (inclusive) and/or with the
// given status, oldest first. Zero bounds and empty status are ignored.
func (r *CycleSQLite) List(ctx context.Context, from, to time.Time, status string) ([]models.RenderCycle, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, to.UTC())
	}
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}

	q := `SELECT id, started_at, finished_at, unit, status, error, points FROM render_cycles`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY started_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.RenderCycle, 0, 64)
	for rows.Next() {
		var (
			c         models.RenderCycle
			unit      string
			status    string
			errStr    sql.NullString
			pointsStr sql.NullString
		)
		if err := rows.Scan(&c.CycleID, &c.StartedAt, &c.FinishedAt, &unit, &status, &errStr, &pointsStr); err != nil {
			return nil, err
		}
		c.StartedAt = c.StartedAt.UTC()
		c.FinishedAt = c.FinishedAt.UTC()
		c.Unit = models.Unit(unit)
		c.Status = models.CycleStatus(status)
		c.Error = errStr.String

		if pointsStr.Valid && pointsStr.String != "" {
			var points map[models.SeriesKey]int
			if err := json.Unmarshal([]byte(pointsStr.String), &points); err == nil {
				c.Points = points
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
