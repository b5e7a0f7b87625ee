// Package service implements the account and bot lifecycle on top of the
// storage interfaces.
//
// Session lifecycle: a login issues a token (Issued); logout deletes it
// (Revoked). An unknown token (Absent) and a revoked one behave the same,
// only the audit trail tells them apart.
//
// All errors returned to callers are one of ErrValidation, ErrUnauthenticated,
// ErrInvalidCredentials, ErrConflict, ErrNotFound, ErrStore or ErrInternal
// (match with errors.Is). ErrStore and ErrInternal wrap the underlying cause
// for logging; it must not be shown to clients.
package service
