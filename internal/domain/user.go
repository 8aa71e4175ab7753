package domain

import "time"

// User represents a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}

// UserSummary is the slice of a User embedded into profile responses.
type UserSummary struct {
	ID     string
	Name   string
	Avatar string
}

// Summary returns the public name/avatar view of the user.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
