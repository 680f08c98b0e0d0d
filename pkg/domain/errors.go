package domain

import "errors"

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrNamespaceBusy is returned when another launch already holds the namespace.
var ErrNamespaceBusy = errors.New("namespace already launched")
