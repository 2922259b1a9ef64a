// Package models holds the client-side views of the TaskKeeper API payloads.
package models

import "time"

// User is the public profile returned by the auth endpoints.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
