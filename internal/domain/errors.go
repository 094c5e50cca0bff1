package domain

import "errors"

var (
	// ErrDataUnavailable indicates a required table or document could not be loaded.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrIdentityNotFound indicates the resolver matched no customer row.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrSchemaMissing indicates a required column is absent after alias normalization.
	ErrSchemaMissing = errors.New("required column missing")

	// ErrPersistence indicates a claim row could not be written.
	ErrPersistence = errors.New("persistence failure")

	// ErrCollaborator indicates an external text-generation or logging call failed.
	ErrCollaborator = errors.New("collaborator failure")
)
