package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNoData           = errors.New("no normalized data")
	ErrMissingSource    = errors.New("missing ledger source")
	ErrClassifierFailed = errors.New("classifier failed")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
