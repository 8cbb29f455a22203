package repository

import "errors"

// Classification sentinels wrapped into repository errors so callers pick
// behavior with errors.Is instead of matching message text.
var (
	// ErrNotFound is wrapped by every lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is wrapped when a caller-supplied ID fails to parse.
	ErrInvalidID = errors.New("invalid")
)
