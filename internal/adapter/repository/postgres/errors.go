package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/srgjo27/gym_booking/internal/core/domain"
)

// SQLSTATE codes the adapters react to.
const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// isUniqueViolation reports the error raised by the partial unique index
// that allows one seat-holding booking per user and class.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// storageErr turns transient transaction aborts into ErrStorageConflict so
// the services retry them. Anything else is returned unchanged.
func storageErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == serializationFailure || pqErr.Code == deadlockDetected) {
		return fmt.Errorf("%w: %s", domain.ErrStorageConflict, pqErr.Message)
	}
	return err
}
