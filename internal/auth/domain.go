package auth

import "time"

// User represents a back-office user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Rol          string
	CreatedAt    time.Time
}
