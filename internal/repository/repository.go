package repository

import (
	"context"
	"database/sql"
	"time"

	"thermostat_dashboard/internal/models"
)

// CycleRepo stores the render-cycle log.
type CycleRepo interface {
	Append(ctx context.Context, c models.RenderCycle) error
	List(ctx context.Context, from, to time.Time, status string) ([]models.RenderCycle, error)
}

// ReadingRepo stores simulated thermostat readings.
type ReadingRepo interface {
	Append(ctx context.Context, r models.TelemetryRecord) error
	Latest(ctx context.Context, limit int) ([]models.TelemetryRecord, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Repository struct {
	Cycles   CycleRepo
	Readings ReadingRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Cycles:   NewCycleSQLite(db),
		Readings: NewReadingSQLite(db),
	}
}
