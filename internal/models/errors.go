package models

import "errors"

// ErrNotFound reports a missing source, product, listing, job or alert.
// Repositories translate sql.ErrNoRows into this sentinel so callers can
// match with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrInvalidJobState reports an attempt to run a job that is not PENDING.
var ErrInvalidJobState = errors.New("job is not in a runnable state")
