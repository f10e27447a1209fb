// Package dto defines request and response payloads for the secret
// endpoints. Secret values travel base64 encoded so arbitrary binary values
// survive JSON transport.
package dto

import (
	validation "github.com/jellydator/validation"

	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
	appvalidation "github.com/allisson/secretd/internal/validation"
)

// DefineSecretRequest is the payload for defining a new secret.
type DefineSecretRequest struct {
	UsageType string `json:"usage_type"`
	UsageID   string `json:"usage_id"`
	Ephemeral bool   `json:"ephemeral"`
	Private   bool   `json:"private"`
}

// Validate checks the request fields.
func (r DefineSecretRequest) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.UsageType, validation.Required, appvalidation.UsageType),
		validation.Field(&r.UsageID, validation.Required.When(r.UsageType != string(secretsDomain.UsageNone))),
	))
}

// ToDefineInput converts the request into the domain input. Call Validate
// first; the usage type conversion assumes it passed.
func (r DefineSecretRequest) ToDefineInput() secretsDomain.DefineInput {
	return secretsDomain.DefineInput{
		UsageType: secretsDomain.UsageType(r.UsageType),
		UsageID:   r.UsageID,
		Ephemeral: r.Ephemeral,
		Private:   r.Private,
	}
}

// SetValueRequest is the payload for storing a secret value. An empty value
// is valid; absence of a value is represented by never calling set.
type SetValueRequest struct {
	Value string `json:"value"`
}

// Validate checks the value is well-formed base64.
func (r SetValueRequest) Validate() error {
	return appvalidation.WrapValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Value, appvalidation.Base64),
	))
}
