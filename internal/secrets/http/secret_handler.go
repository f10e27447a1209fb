// Package http provides HTTP handlers for secret lifecycle operations.
package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/secretd/internal/auth/http"
	apperrors "github.com/allisson/secretd/internal/errors"
	"github.com/allisson/secretd/internal/httputil"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
	"github.com/allisson/secretd/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/secretd/internal/secrets/usecase"
	customValidation "github.com/allisson/secretd/internal/validation"
)

// SecretHandler handles HTTP requests for secret operations.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// token extracts the session token placed in the context by the session
// middleware.
func (h *SecretHandler) token(c *gin.Context) (string, bool) {
	sess, ok := authHTTP.GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", false
	}
	return sess.Token, true
}

// parseUUID reads the :uuid path parameter.
func (h *SecretHandler) parseUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			customValidation.WrapValidationError(apperrors.New("uuid: must be a valid UUID")),
			h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// DefineSecretHandler defines a new secret.
// POST /v1/secrets - returns 201 Created with the secret's metadata.
func (h *SecretHandler) DefineSecretHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var req dto.DefineSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	secret, err := h.secretUseCase.Define(c.Request.Context(), token, req.ToDefineInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSecretResponse(secret))
}

// ListSecretsHandler returns the UUIDs of visible secrets.
// GET /v1/secrets - returns 200 OK with a snapshot of UUIDs.
func (h *SecretHandler) ListSecretsHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	uuids, err := h.secretUseCase.List(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewListSecretsResponse(uuids))
}

// LookupSecretHandler resolves a usage scope to a secret.
// GET /v1/secrets/lookup?usage_type=ceph&usage_id=client.admin
func (h *SecretHandler) LookupSecretHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	usageType, err := secretsDomain.ParseUsageType(c.Query("usage_type"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secret, err := h.secretUseCase.LookupByUsage(c.Request.Context(), token, usageType, c.Query("usage_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewSecretResponse(secret))
}

// GetSecretHandler returns a secret's metadata.
// GET /v1/secrets/:uuid
func (h *SecretHandler) GetSecretHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	secretUUID, ok := h.parseUUID(c)
	if !ok {
		return
	}

	secret, err := h.secretUseCase.LookupByUUID(c.Request.Context(), token, secretUUID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewSecretResponse(secret))
}

// DescribeSecretHandler returns the secret's XML descriptor.
// GET /v1/secrets/:uuid/xml?include_private=true
// The descriptor never embeds the value.
func (h *SecretHandler) DescribeSecretHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	secretUUID, ok := h.parseUUID(c)
	if !ok {
		return
	}

	opts := secretsDomain.DescribeOptions{
		IncludePrivate: c.Query("include_private") == "true",
	}

	xml, err := h.secretUseCase.DescribeXML(c.Request.Context(), token, secretUUID, opts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}

// GetValueHandler returns the secret's current value.
// GET /v1/secrets/:uuid/value - the value is base64 encoded.
func (h *SecretHandler) GetValueHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	secretUUID, ok := h.parseUUID(c)
	if !ok {
		return
	}

	value, err := h.secretUseCase.GetValue(c.Request.Context(), token, secretUUID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewValueResponse(value))
}

// SetValueHandler stores the secret's value.
// PUT /v1/secrets/:uuid/value - accepts a base64 encoded value, returns 204.
func (h *SecretHandler) SetValueHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	secretUUID, ok := h.parseUUID(c)
	if !ok {
		return
	}

	var req dto.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validated above.
	value, _ := base64.StdEncoding.DecodeString(req.Value)

	if err := h.secretUseCase.SetValue(c.Request.Context(), token, secretUUID, value); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UndefineSecretHandler removes a secret and purges its value.
// DELETE /v1/secrets/:uuid - returns 204; the operation is irreversible.
func (h *SecretHandler) UndefineSecretHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	secretUUID, ok := h.parseUUID(c)
	if !ok {
		return
	}

	if err := h.secretUseCase.Undefine(c.Request.Context(), token, secretUUID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
