// Package model defines domain entities for the application.
package model

import "time"

// User is a registered marketplace account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
