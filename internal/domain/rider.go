package domain

import "time"

// Rider represents a rider account.
type Rider struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	SocketID     string // live connection id, empty while offline
	CreatedAt    time.Time
}

// FullName returns the rider's display name.
func (r *Rider) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
