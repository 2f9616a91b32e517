package model

import "time"

// Role is the closed set of caller capabilities.  Roles are checked at
// each operation's entry; there is no polymorphic user hierarchy.
type Role string

const (
	RoleUser     Role = "USER"     // business user who books stalls
	RoleEmployee Role = "EMPLOYEE" // staff with administrative override
)

// User represents an account as stored in the `users` table.  Only the
// numeric identity and the role matter to the allocation engine; the
// rest supports authentication.
//
// Fields:
//  ID           - primary key identifier.
//  Email        - unique email address.
//  PasswordHash - bcrypt hashed password.
//  Role         - USER or EMPLOYEE.
//  IsActive     - whether the account is active.
//  CreatedAt    - timestamp of creation.
//  UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
