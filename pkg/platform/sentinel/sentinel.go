package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, probes, and channel
// adapters return these (optionally wrapped) so services can translate them
// into domain behavior without string matching.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrExpired: code/entry has passed its expiry time
// - ErrMismatch: supplied code does not equal the stored code
// - ErrConflict: unique-key violation on write
// - ErrNotConfigured: channel credentials or API key absent
// - ErrUnavailable: external resource unreachable (probe failure, store full)
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrExpired       = errors.New("expired")
	ErrMismatch      = errors.New("mismatch")
	ErrNotConfigured = errors.New("not configured")
	ErrUnavailable   = errors.New("unavailable")
)
