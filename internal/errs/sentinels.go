// Package errs contains sentinel errors shared by the tracker, stores and HTTP layer.
package errs

import "errors"

var (
	// ErrInvalidVolume rejects a drink whose volume is not a finite number > 0.
	ErrInvalidVolume = errors.New("invalid volume")

	// ErrInvalidFactor rejects a hydration factor outside [0, 1.2] or non-finite.
	ErrInvalidFactor = errors.New("invalid factor")

	// ErrInvalidGoal rejects a daily goal below the minimum or non-finite.
	ErrInvalidGoal = errors.New("invalid goal")

	// ErrPersist indicates the state was mutated in memory but could not be written.
	ErrPersist = errors.New("persist state")

	// ErrNotFound indicates a key is absent from a storage substrate.
	ErrNotFound = errors.New("not found")
)
