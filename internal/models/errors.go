package models

import "errors"

// Errors returned across the credential and registry stores. Callers match
// them with errors.Is; storage layers may wrap them with operation context.
var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateNationalID = errors.New("national id already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotFound            = errors.New("record not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)
