package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"urbik/internal/domain"
	"urbik/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	db *sql.DB
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

// Create adds a new rider.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (id, first_name, last_name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		rider.ID, rider.FirstName, rider.LastName, rider.Email, rider.PasswordHash, rider.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	query := `SELECT id, first_name, last_name, email, password_hash, socket_id, created_at FROM riders WHERE id = $1`
	return r.scanRider(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a rider by email.
func (r *RiderRepository) GetByEmail(ctx context.Context, email string) (*domain.Rider, error) {
	query := `SELECT id, first_name, last_name, email, password_hash, socket_id, created_at FROM riders WHERE email = $1`
	return r.scanRider(r.db.QueryRowContext(ctx, query, email))
}

// UpdateSocketID records the rider's live connection id.
func (r *RiderRepository) UpdateSocketID(ctx context.Context, id, socketID string) error {
	var socket sql.NullString
	if socketID != "" {
		socket = sql.NullString{String: socketID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, `UPDATE riders SET socket_id = $1 WHERE id = $2`, socket, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ClearBySocketID clears the socket id of the rider that owns it.
func (r *RiderRepository) ClearBySocketID(ctx context.Context, socketID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`UPDATE riders SET socket_id = NULL WHERE socket_id = $1 RETURNING id`, socketID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *RiderRepository) scanRider(row *sql.Row) (*domain.Rider, error) {
	var rider domain.Rider
	var lastName, socketID sql.NullString

	err := row.Scan(&rider.ID, &rider.FirstName, &lastName, &rider.Email, &rider.PasswordHash, &socketID, &rider.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rider.LastName = lastName.String
	rider.SocketID = socketID.String
	return &rider, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
