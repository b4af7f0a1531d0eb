package util

import "errors"

// ErrNotFound is returned by repository adapters when the addressed resource
// does not exist in the remote store.
var ErrNotFound = errors.New("resource not found")

// ErrConflict is returned by repository adapters when a concurrent writer won
// the commit race.
var ErrConflict = errors.New("write conflict")
