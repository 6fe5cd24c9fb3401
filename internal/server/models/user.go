package models

import "time"

// User is a credential record. Email is the unique key; records are immutable
// after registration.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
