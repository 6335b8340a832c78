package domain

import "errors"

var (
	// ErrUpstreamAuth means the client-credentials exchange with the
	// flight-data provider failed.
	ErrUpstreamAuth = errors.New("upstream token exchange failed")

	// ErrUpstreamRequest means a bearer-authenticated upstream call
	// returned a non-2xx status or did not complete.
	ErrUpstreamRequest = errors.New("upstream request failed")

	// ErrDuplicateFlight is a normal outcome of a save attempt, not a
	// server fault: the user already bookmarked an identical flight.
	ErrDuplicateFlight = errors.New("flight already saved")

	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("access unauthorized")
	ErrNotFound        = errors.New("not found")

	// ErrPersistence wraps commit failures; the underlying detail is
	// logged but never shown to the end user.
	ErrPersistence = errors.New("database commit failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
)
