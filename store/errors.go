package store

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrStoreUnavailable covers network, auth and backend failures
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrValidationRejected means the store refused the document
	ErrValidationRejected = errors.New("report rejected by store")
	// ErrNotFound is returned when an id matches no report
	ErrNotFound = errors.New("report not found")
)

// classify maps a driver error onto the store error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrValidationRejected) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrValidationRejected, err)
	}
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		return fmt.Errorf("%w: %w", ErrValidationRejected, err)
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
