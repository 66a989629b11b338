package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// so services can translate them into domain errors:
//   - ErrNotFound: the import, or the (import, citizen_id) pair, has no rows
//   - ErrConflict: a unique, foreign key or check constraint rejected a write
//   - ErrUnavailable: the backing store could not be reached
//
// Field-level validation failures are not sentinels; use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
