package services

import (
	"errors"

	"feedback_backend/internal/storage"
	"feedback_backend/pkg/apperrors"
)

// storeError maps storage failures onto the API error taxonomy.
func storeError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, storage.ErrWriteFailed):
		return apperrors.ErrStoreWriteFailed.WithError(err)
	case errors.Is(err, storage.ErrUnavailable):
		return apperrors.ErrStoreUnavailable.WithError(err)
	default:
		return apperrors.InternalError(err)
	}
}
