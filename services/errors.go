package services

import (
	"errors"
	"fmt"

	"github.com/garage-works/garage-orders-api/repository"
)

var (
	// ErrValidation is wrapped by every *ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrReference is wrapped by every *ReferenceError
	ErrReference = errors.New("referenced record not found")
	// ErrPhotoStorage wraps failures of the photo object store
	ErrPhotoStorage = errors.New("photo storage unavailable")

	ErrOrderNotFound       = repository.ErrOrderNotFound
	ErrServiceLineNotFound = repository.ErrServiceLineNotFound
	ErrDataIntegrity       = repository.ErrDataIntegrity
	ErrTokenCollision      = repository.ErrTokenCollision
)

// ValidationError reports input rejected before any write
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ReferenceError reports an id that does not exist in its catalog table
type ReferenceError struct {
	Kind string
	ID   uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Kind, e.ID)
}

func (e *ReferenceError) Unwrap() error {
	return ErrReference
}
