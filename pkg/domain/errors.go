package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrInvalidCurrencyCode is returned when a currency code is not three letters
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	// ErrUnknownField is returned when a field edit names a field the record does not have
	ErrUnknownField = errors.New("unknown field")
	// ErrFieldReadOnly is returned when a field edit targets a hidden or read-only field
	ErrFieldReadOnly = errors.New("field is read-only")
	// ErrInvalidFieldValue is returned when a field edit carries a value of the wrong type
	ErrInvalidFieldValue = errors.New("invalid field value")
)
