package domain

import (
	"slices"
	"time"
)

// User represents an account that can authenticate against the platform.
// RoleCodes carries the codes of every role granted to the user.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	Cellular     string    `json:"cellular,omitempty"`
	Enabled      bool      `json:"enabled"`
	RoleCodes    []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasRole reports whether the user holds the given role code
func (u *User) HasRole(code string) bool {
	return slices.Contains(u.RoleCodes, code)
}

// AddRole grants a role code, ignoring duplicates
func (u *User) AddRole(code string) {
	if !u.HasRole(code) {
		u.RoleCodes = append(u.RoleCodes, code)
	}
}

// RemoveRole revokes a role code if present
func (u *User) RemoveRole(code string) {
	u.RoleCodes = slices.DeleteFunc(u.RoleCodes, func(c string) bool {
		return c == code
	})
}
