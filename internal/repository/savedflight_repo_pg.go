package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solnguyen93/flightcast/internal/domain"
)

type SavedFlightRepository interface {
	Create(ctx context.Context, flight *domain.SavedFlight) error
	Exists(ctx context.Context, userID int64, key domain.DuplicateKey) (bool, error)
	DeleteOwned(ctx context.Context, userID, id int64) error
	ListRecent(ctx context.Context, limit int) ([]domain.SavedFlight, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SavedFlight, error)
}

type PGSavedFlightRepository struct {
	db *pgxpool.Pool
}

func NewSavedFlightRepository(db *pgxpool.Pool) SavedFlightRepository {
	return &PGSavedFlightRepository{db: db}
}

// Create inserts the bookmark inside a transaction. The composite unique
// index is the authoritative duplicate guard; a violation comes back as
// ErrDuplicateFlight regardless of what the pre-check saw.
func (r *PGSavedFlightRepository) Create(ctx context.Context, flight *domain.SavedFlight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persistence(err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO saved_flights
		(offer_id, departure_location_id, arrival_location_id, depart_date, return_date, passengers, num_stops, total_duration, price, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		flight.OfferID, flight.DepartureLocationID, flight.ArrivalLocationID,
		flight.DepartDate, flight.ReturnDate, flight.Passengers, flight.NumStops,
		flight.TotalDuration, flight.Price, flight.UserID).
		Scan(&flight.ID, &flight.CreatedAt); err != nil {
		if _, ok := uniqueViolation(err); ok {
			return domain.ErrDuplicateFlight
		}
		return persistence(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistence(err)
	}
	return nil
}

// Exists is the fast-path duplicate check that lets the caller answer with
// a friendly message before attempting an insert.
func (r *PGSavedFlightRepository) Exists(ctx context.Context, userID int64, key domain.DuplicateKey) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM saved_flights
		WHERE user_id=$1 AND offer_id=$2 AND departure_location_id=$3 AND arrival_location_id=$4
		  AND depart_date=$5 AND return_date=$6 AND passengers=$7 AND num_stops=$8
		  AND total_duration=$9 AND price=$10)`,
		userID, key.OfferID, key.DepartureLocationID, key.ArrivalLocationID,
		key.DepartDate, key.ReturnDate, key.Passengers, key.NumStops,
		key.TotalDuration, key.Price).Scan(&exists)
	if err != nil {
		return false, persistence(err)
	}
	return exists, nil
}

// DeleteOwned removes the row only when it belongs to userID. A foreign id
// is indistinguishable from a missing one on purpose.
func (r *PGSavedFlightRepository) DeleteOwned(ctx context.Context, userID, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM saved_flights WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return persistence(err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGSavedFlightRepository) ListRecent(ctx context.Context, limit int) ([]domain.SavedFlight, error) {
	rows, err := r.db.Query(ctx, listQuery+` ORDER BY f.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, persistence(err)
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGSavedFlightRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SavedFlight, error) {
	rows, err := r.db.Query(ctx, listQuery+` WHERE f.user_id=$1 ORDER BY f.id DESC`, userID)
	if err != nil {
		return nil, persistence(err)
	}
	defer rows.Close()
	return scanFlights(rows)
}

const listQuery = `SELECT f.id, f.offer_id, f.departure_location_id, f.arrival_location_id,
	f.depart_date, f.return_date, f.passengers, f.num_stops, f.total_duration, f.price,
	COALESCE(f.user_id, 0), f.created_at, dep.code, arr.code
	FROM saved_flights f
	JOIN locations dep ON dep.id = f.departure_location_id
	JOIN locations arr ON arr.id = f.arrival_location_id`

func scanFlights(rows pgx.Rows) ([]domain.SavedFlight, error) {
	flights := make([]domain.SavedFlight, 0)
	for rows.Next() {
		var f domain.SavedFlight
		if err := rows.Scan(&f.ID, &f.OfferID, &f.DepartureLocationID, &f.ArrivalLocationID,
			&f.DepartDate, &f.ReturnDate, &f.Passengers, &f.NumStops, &f.TotalDuration,
			&f.Price, &f.UserID, &f.CreatedAt, &f.DepartureCode, &f.ArrivalCode); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(domain.ErrPersistence, err)
	}
	return flights, nil
}

var _ SavedFlightRepository = (*PGSavedFlightRepository)(nil)
