// Package repository defines the data stores behind the services and the
// sentinel errors they share. Higher layers use these values to tell a
// missing record apart from a uniqueness conflict and translate them into
// the service error taxonomy.
package repository

import "errors"

// ErrEmailExists is returned when a user with the same email is already
// registered.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("user not found")
