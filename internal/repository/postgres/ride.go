package postgres

import (
	"context"
	"database/sql"
	"errors"

	"urbik/internal/domain"
	"urbik/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	db *sql.DB
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, pickup, destination, fare, status, otp,
			distance, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.RiderID, ride.Pickup, ride.Destination, ride.Fare, ride.Status, ride.OTP,
		nullInt(ride.Distance), nullInt(ride.Duration), ride.CreatedAt)
	return err
}

// GetByID retrieves a ride by ID. The OTP column is never selected here.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `
		SELECT id, rider_id, captain_id, pickup, destination, fare, status,
			distance, duration, payment_id, order_id, signature, created_at
		FROM rides WHERE id = $1
	`
	return r.scanRide(r.db.QueryRowContext(ctx, query, id), false)
}

// GetByIDWithOTP retrieves a ride by ID including its OTP.
func (r *RideRepository) GetByIDWithOTP(ctx context.Context, id string) (*domain.Ride, error) {
	query := `
		SELECT id, rider_id, captain_id, pickup, destination, fare, status,
			distance, duration, payment_id, order_id, signature, created_at, otp
		FROM rides WHERE id = $1
	`
	return r.scanRide(r.db.QueryRowContext(ctx, query, id), true)
}

// AssignIfPending sets the captain and moves the ride to accepted, only if
// the ride is still pending. The guard runs inside the UPDATE itself, so two
// concurrent accepts cannot both win.
func (r *RideRepository) AssignIfPending(ctx context.Context, rideID, captainID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rides SET captain_id = $1, status = $2 WHERE id = $3 AND status = $4`,
		captainID, domain.RideStatusAccepted, rideID, domain.RideStatusPending)
	if err != nil {
		return err
	}
	return r.resolveGuardFailure(ctx, result, rideID)
}

// TransitionOwned moves the ride between statuses, only if the ride is in
// `from` and assigned to the given captain.
func (r *RideRepository) TransitionOwned(ctx context.Context, rideID, captainID string, from, to domain.RideStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rides SET status = $1 WHERE id = $2 AND captain_id = $3 AND status = $4`,
		to, rideID, captainID, from)
	if err != nil {
		return err
	}
	return r.resolveGuardFailure(ctx, result, rideID)
}

// CancelForRider moves the ride to cancelled if it belongs to the rider and
// no trip has started yet.
func (r *RideRepository) CancelForRider(ctx context.Context, rideID, riderID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rides SET status = $1 WHERE id = $2 AND rider_id = $3 AND status IN ($4, $5)`,
		domain.RideStatusCancelled, rideID, riderID, domain.RideStatusPending, domain.RideStatusAccepted)
	if err != nil {
		return err
	}
	return r.resolveGuardFailure(ctx, result, rideID)
}

// resolveGuardFailure distinguishes a missing ride from a guard that failed
// on an existing one.
func (r *RideRepository) resolveGuardFailure(ctx context.Context, result sql.Result, rideID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, rideID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func (r *RideRepository) scanRide(row *sql.Row, withOTP bool) (*domain.Ride, error) {
	var ride domain.Ride
	var captainID, paymentID, orderID, signature sql.NullString
	var distance, duration sql.NullInt64

	dest := []any{
		&ride.ID, &ride.RiderID, &captainID, &ride.Pickup, &ride.Destination,
		&ride.Fare, &ride.Status, &distance, &duration,
		&paymentID, &orderID, &signature, &ride.CreatedAt,
	}
	if withOTP {
		dest = append(dest, &ride.OTP)
	}

	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ride.CaptainID = captainID.String
	ride.Distance = distance.Int64
	ride.Duration = duration.Int64
	ride.PaymentID = paymentID.String
	ride.OrderID = orderID.String
	ride.Signature = signature.String
	return &ride, nil
}

func nullInt(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
