package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated requester. The zero value is anonymous.
type Identity struct {
	UserID   int64
	Username string
}

func (i Identity) Authenticated() bool {
	return i.UserID > 0
}
