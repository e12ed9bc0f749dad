package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")

	ErrSurveyNotFound       = fmt.Errorf("survey %w", ErrNotFound)
	ErrResponseNotFound     = fmt.Errorf("response %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for input the caller can correct and resubmit.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError wraps a persistence failure. It is fatal to the current request.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DeliveryError wraps a mail transport failure. The notification stays unsent.
// Digest failures carry UserID instead of NotificationID.
type DeliveryError struct {
	NotificationID uuid.UUID
	UserID         uuid.UUID
	Err            error
}

func (e *DeliveryError) Error() string {
	if e.NotificationID == uuid.Nil && e.UserID != uuid.Nil {
		return fmt.Sprintf("deliver daily digest to user %s: %v", e.UserID, e.Err)
	}
	return fmt.Sprintf("deliver notification %s: %v", e.NotificationID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}

func IsDelivery(err error) bool {
	var d *DeliveryError
	return errors.As(err, &d)
}
