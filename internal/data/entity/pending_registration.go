package entity

import "time"

// PendingRegistration is an unconfirmed signup held outside the database until
// the emailed code is verified or it expires.
type PendingRegistration struct {
	Email        string
	PasswordHash string
	Code         string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
