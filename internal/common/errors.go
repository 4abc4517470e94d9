// Package common defines shared constants and sentinel errors used across
// the filekeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate file name")

	// Service-level errors.
	ErrUnknownUser     = errors.New("unknown user")
	ErrInvalidFilename = errors.New("invalid filename")

	// Infrastructure errors. ErrStorage covers filesystem I/O failures,
	// ErrMetadata covers metadata store failures.
	ErrStorage  = errors.New("storage error")
	ErrMetadata = errors.New("metadata error")

	// ErrIntegrityViolation means the on-disk content no longer matches the
	// recorded hash. Security-relevant: it must block the download and is
	// kept distinct from ErrNotFound/ErrStorage so operators can alert on
	// it separately.
	ErrIntegrityViolation = errors.New("integrity violation")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
