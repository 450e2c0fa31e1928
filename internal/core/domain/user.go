package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User models a registered account. Role is fixed at creation.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail lower-cases and trims an address so lookups and the
// uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleForEmail returns RoleAdmin when email matches the configured admin
// address (case-insensitively) and RoleUser otherwise. An empty admin
// address never matches.
func RoleForEmail(email, adminEmail string) Role {
	admin := NormalizeEmail(adminEmail)
	if admin != "" && NormalizeEmail(email) == admin {
		return RoleAdmin
	}
	return RoleUser
}

// Caller is the identity resolved from a verified credential. Role is a
// snapshot taken when the token was issued; a later change to the stored
// user is not seen until a new token is issued.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }
