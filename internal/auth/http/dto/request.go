// Package dto defines request and response payloads for the session
// endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	appvalidation "github.com/allisson/secretd/internal/validation"
)

// OpenSessionRequest is the payload for opening a session.
type OpenSessionRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Validate checks the request fields.
func (r OpenSessionRequest) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.ClientID, validation.Required, appvalidation.UUID),
		validation.Field(&r.ClientSecret, validation.Required),
	))
}
