package domain

import "time"

// User is the domain entity for a user account. RefreshToken holds the
// single latest refresh token issued for the account; a login or refresh
// overwrites it.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	Avatar       string
	RefreshToken string
	Confirmed    bool
}
