package model

import "time"

// DefaultRole is assigned when signup does not name a role.
const DefaultRole = "user"

// User represents a registered account held by the user store.  The
// PasswordHash never leaves the service layer; handlers render PublicUser or
// Profile instead.
//
// Fields:
//  ID           – 1-based, assigned in creation order, never reused.
//  Username     – display name chosen at signup.
//  Email        – unique login identifier (exact, case-sensitive match).
//  PasswordHash – bcrypt hash of the password.
//  Role         – role claim copied into issued tokens.
//  CreatedAt    – UTC creation timestamp.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// PublicUser is the subset of a user that is safe to return to clients.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Profile is the public view plus the account creation time.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the client-safe view of u.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Profile returns the profile view of u.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}
