package users

import "time"

type User struct {
	ID           int64
	Login        string
	PasswordHash []byte
	HashSalt     []byte
	CreatedAt    time.Time
}

// Info is the public profile view returned by the user endpoint.
type Info struct {
	Login string `json:"login"`
}
