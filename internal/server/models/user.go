// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Users are never updated or deleted.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
