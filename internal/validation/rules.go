// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
	"github.com/google/uuid"

	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Base64 validates that a string is valid standard base64.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Required handles empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// UsageType validates that a string names a recognized secret usage type.
var UsageType = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_usage_type_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := secretsDomain.ParseUsageType(s); err != nil {
		return validation.NewError("validation_usage_type", "must be one of: volume, ceph, iscsi, tls, vtpm, none")
	}
	return nil
})

// UUID validates that a string is a well-formed UUID.
var UUID = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
})
