// Package models holds the rows the server persists.
package models

import "time"

type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
	LastLogin *time.Time
}
