package common

import "errors"

// Callers should use errors.Is to match these values.
var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("unique constraint violation")

	// Service-level errors.
	ErrorInternal            = errors.New("internal error")
	ErrorUnauthorized        = errors.New("unauthorized")
	ErrorValidation          = errors.New("validation error")
	ErrorWeakPassword        = errors.New("password must be at least 6 characters long")
	ErrorDuplicateCredential = errors.New("username or email already exists")
	ErrorInvalidCredentials  = errors.New("invalid username or password")

	// Export errors.
	ErrorNoData = errors.New("no data to export")
)
