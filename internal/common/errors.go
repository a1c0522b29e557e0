package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound      = errors.New("post not found")
	ErrSlugTaken         = errors.New("slug already in use")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Category errors
	ErrCategoryNotFound = errors.New("category not found")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Role errors
	ErrInvalidRole = errors.New("invalid role")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
