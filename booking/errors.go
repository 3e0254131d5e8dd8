package booking

import "errors"

// Error taxonomy surfaced by the engine. Handlers translate these to HTTP
// status codes; the engine itself never logs or writes responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
