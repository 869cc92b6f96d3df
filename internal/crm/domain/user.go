package domain

import "time"

// User is an identity record in the credential store. Roles is ordered by
// assignment: the first entry is the user's primary role as reported on
// login.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DefaultRole is assumed when a user has no explicit role assignments.
const DefaultRole = "USER"

// RoleAdmin guards the user-management endpoints.
const RoleAdmin = "ADMIN"

// PrimaryRole returns the first assigned role, falling back to DefaultRole.
func (u User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return DefaultRole
	}
	return u.Roles[0]
}

// Role is a named grant that can be assigned to users.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
