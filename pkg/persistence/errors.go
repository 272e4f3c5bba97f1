package persistence

import "errors"

var (
	// ErrEntityNotFound is returned when an entity is not found in the repository.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when an insert collides with an existing entity.
	// Consumers treat it as proof that a creation event was already applied.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrOptimisticLocking is returned when an optimistic locking conflict occurs.
	ErrOptimisticLocking = errors.New("optimistic locking error")
)
