// Package telemetry stores sensor readings posted by household devices. It
// shares the database with the tournament engine but nothing else.
package telemetry

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Reading struct {
	ID         int64     `db:"id" json:"id"`
	DeviceID   string    `db:"device_id" json:"device_id"`
	Metric     string    `db:"metric" json:"metric"`
	Value      float64   `db:"value" json:"value"`
	Unit       *string   `db:"unit" json:"unit,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, r *Reading) error {
	res, err := s.db.NamedExecContext(ctx, `INSERT INTO sensor_readings (device_id, metric, value, unit)
		VALUES (:device_id, :metric, :value, :unit)`, r)
	if err != nil {
		return err
	}
	r.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) ListByDevice(ctx context.Context, deviceID string, limit int) ([]Reading, error) {
	var out []Reading
	err := s.db.SelectContext(ctx, &out,
		"SELECT * FROM sensor_readings WHERE device_id = ? ORDER BY recorded_at DESC LIMIT ?", deviceID, limit)
	return out, err
}
