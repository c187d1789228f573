// Package models holds the persistent entities of the report service.
package models

import "time"

type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// UserIdentity is what an authenticated request knows about its caller.
type UserIdentity struct {
	UserID   string
	UserName string
}
