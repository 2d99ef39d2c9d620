// Package repository contains the data access layer: one repo struct per
// table group, hand-written SQL over database/sql. This file defines the
// sentinel errors shared across repositories so handlers can translate
// failures into the right HTTP status without inspecting driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when a user row does not exist. Handlers
// translate this into an HTTP 404 response.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned on registration when the email unique key
// collides. Handlers translate this into HTTP 400.
var ErrEmailTaken = errors.New("email already registered")

// ErrUsernameTaken is returned on registration when the username unique
// key collides. Handlers translate this into HTTP 400.
var ErrUsernameTaken = errors.New("username already taken")

// ErrImageNotFound is returned when a portfolio image does not exist or
// belongs to a different artist.
var ErrImageNotFound = errors.New("portfolio image not found")

// ErrResetTokenInvalid is returned when a password reset token is unknown,
// expired or already used. Handlers translate this into HTTP 404.
var ErrResetTokenInvalid = errors.New("reset token invalid")
