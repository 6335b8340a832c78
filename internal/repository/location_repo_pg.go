package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solnguyen93/flightcast/internal/domain"
)

type LocationRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Location, error)
	GetOrCreate(ctx context.Context, loc *domain.Location) (*domain.Location, error)
}

type PGLocationRepository struct {
	db *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) LocationRepository {
	return &PGLocationRepository{db: db}
}

func (r *PGLocationRepository) GetByCode(ctx context.Context, code string) (*domain.Location, error) {
	row := r.db.QueryRow(ctx, `SELECT id, code, name, latitude, longitude FROM locations WHERE code=$1`, code)
	var l domain.Location
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &l.Latitude, &l.Longitude); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// GetOrCreate resolves a location by code, inserting it when absent. The
// unique index on code is the serialization point, so two concurrent
// requests for a new code both land on the same row. An existing row keeps
// its name and coordinates.
func (r *PGLocationRepository) GetOrCreate(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO locations (code, name, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
		RETURNING id, code, name, latitude, longitude`,
		loc.Code, loc.Name, loc.Latitude, loc.Longitude)

	var l domain.Location
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &l.Latitude, &l.Longitude); err != nil {
		return nil, persistence(err)
	}
	return &l, nil
}

var _ LocationRepository = (*PGLocationRepository)(nil)
