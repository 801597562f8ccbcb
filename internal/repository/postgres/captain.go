package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"urbik/internal/domain"
	"urbik/internal/repository"
)

const captainColumns = `id, first_name, last_name, email, password_hash,
	vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type,
	status, lat, lng, socket_id, created_at`

// CaptainRepository is a PostgreSQL implementation of repository.CaptainRepository.
type CaptainRepository struct {
	db *sql.DB
}

// NewCaptainRepository creates a new PostgreSQL captain repository.
func NewCaptainRepository(db *sql.DB) *CaptainRepository {
	return &CaptainRepository{db: db}
}

// Create adds a new captain.
func (r *CaptainRepository) Create(ctx context.Context, captain *domain.Captain) error {
	query := `
		INSERT INTO captains (id, first_name, last_name, email, password_hash,
			vehicle_color, vehicle_plate, vehicle_capacity, vehicle_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		captain.ID, captain.FirstName, captain.LastName, captain.Email, captain.PasswordHash,
		captain.Vehicle.Color, captain.Vehicle.Plate, captain.Vehicle.Capacity, captain.Vehicle.Type,
		captain.Status, captain.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// GetByID retrieves a captain by ID.
func (r *CaptainRepository) GetByID(ctx context.Context, id string) (*domain.Captain, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+captainColumns+` FROM captains WHERE id = $1`, id)
	return scanCaptainRow(row)
}

// GetByEmail retrieves a captain by email.
func (r *CaptainRepository) GetByEmail(ctx context.Context, email string) (*domain.Captain, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+captainColumns+` FROM captains WHERE email = $1`, email)
	return scanCaptainRow(row)
}

// AttachSocket records the live connection id and marks the captain active.
func (r *CaptainRepository) AttachSocket(ctx context.Context, id, socketID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE captains SET socket_id = $1, status = $2 WHERE id = $3`,
		socketID, domain.CaptainStatusActive, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetActive upserts the location and marks the captain active in one write.
func (r *CaptainRepository) SetActive(ctx context.Context, id string, lat, lng float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE captains SET lat = $1, lng = $2, status = $3 WHERE id = $4`,
		lat, lng, domain.CaptainStatusActive, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetInactive clears the socket id and marks the captain inactive.
func (r *CaptainRepository) SetInactive(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE captains SET socket_id = NULL, status = $1 WHERE id = $2`,
		domain.CaptainStatusInactive, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DetachBySocket clears the live state of the captain owning the socket id.
func (r *CaptainRepository) DetachBySocket(ctx context.Context, socketID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`UPDATE captains SET socket_id = NULL, status = $1 WHERE socket_id = $2 RETURNING id`,
		domain.CaptainStatusInactive, socketID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListActiveLocated returns active captains with a socket id and a location.
func (r *CaptainRepository) ListActiveLocated(ctx context.Context) ([]*domain.Captain, error) {
	query := `SELECT ` + captainColumns + ` FROM captains
		WHERE status = $1 AND socket_id IS NOT NULL AND lat IS NOT NULL AND lng IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query, domain.CaptainStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCaptainRows(rows)
}

// GetByIDs retrieves the captains for the given ids, skipping unknown ids.
func (r *CaptainRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Captain, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + captainColumns + ` FROM captains WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCaptainRows(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaptain(row rowScanner) (*domain.Captain, error) {
	var captain domain.Captain
	var lastName, socketID sql.NullString
	var lat, lng sql.NullFloat64

	err := row.Scan(&captain.ID, &captain.FirstName, &lastName, &captain.Email, &captain.PasswordHash,
		&captain.Vehicle.Color, &captain.Vehicle.Plate, &captain.Vehicle.Capacity, &captain.Vehicle.Type,
		&captain.Status, &lat, &lng, &socketID, &captain.CreatedAt)
	if err != nil {
		return nil, err
	}

	captain.LastName = lastName.String
	captain.SocketID = socketID.String
	if lat.Valid && lng.Valid {
		captain.Lat = &lat.Float64
		captain.Lng = &lng.Float64
	}
	return &captain, nil
}

func scanCaptainRow(row *sql.Row) (*domain.Captain, error) {
	captain, err := scanCaptain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return captain, err
}

func scanCaptainRows(rows *sql.Rows) ([]*domain.Captain, error) {
	var captains []*domain.Captain
	for rows.Next() {
		captain, err := scanCaptain(rows)
		if err != nil {
			return nil, err
		}
		captains = append(captains, captain)
	}
	return captains, rows.Err()
}
