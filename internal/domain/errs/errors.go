package errs

import "errors"

var (
	// ErrQueryFailed is returned when the store cannot open a row stream at all,
	// as opposed to opening one that happens to be empty
	ErrQueryFailed = errors.New("store query failed to open")

	// ErrNotFound is returned when a single-row lookup by exact address produces no row
	ErrNotFound = errors.New("resource not found")

	// ErrRemote is returned when an insert produces no usable generated identifier
	ErrRemote = errors.New("remote operation failed")

	// ErrNoColumn is returned when a row does not carry a requested column
	ErrNoColumn = errors.New("column absent from row")

	// ErrPermissionDenied is returned by the service boundary when the capability gate rejects a caller
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput is returned when input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)
