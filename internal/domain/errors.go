package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already registered")

	// Upload pipeline failure kinds. The pipeline returns exactly one of
	// these for every expected failure; callers map them to user-facing
	// retry/support/smaller-file framing.
	ErrAuthRequired      = errors.New("no authenticated principal")
	ErrUnreadableSource  = errors.New("no byte source could read the file")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrInvalidPath       = errors.New("storage path is invalid and cannot be repaired")
	ErrOwnershipMismatch = errors.New("path owner segment does not match authenticated principal")
	ErrPolicyViolation   = errors.New("storage rejected the upload for authorization reasons")
	ErrUploadExhausted   = errors.New("all upload attempts failed")

	ErrUnknownCacheStrategy = errors.New("unknown cache strategy")
)
