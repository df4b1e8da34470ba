// Package httperr maps domain and binding errors to HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/logging"
	"entitlements-app/internal/services/accounts"
	"entitlements-app/internal/store"
)

// RetryAfterSeconds is sent with 503 responses for lock contention.
const RetryAfterSeconds = "1"

// Status returns the HTTP status for err and the message safe to show.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, upgrades.ErrAuthorization):
		return http.StatusForbidden, upgrades.ErrAuthorization.Error()
	case errors.Is(err, upgrades.ErrDuplicateRequest):
		return http.StatusConflict, upgrades.ErrDuplicateRequest.Error()
	case errors.Is(err, upgrades.ErrInvalidUpgradeTarget):
		return http.StatusUnprocessableEntity, upgrades.ErrInvalidUpgradeTarget.Error()
	case errors.Is(err, upgrades.ErrInvalidPlan):
		return http.StatusUnprocessableEntity, upgrades.ErrInvalidPlan.Error()
	case errors.Is(err, upgrades.ErrMissingEntitlement):
		return http.StatusConflict, upgrades.ErrMissingEntitlement.Error()
	case errors.Is(err, upgrades.ErrInvalidStateTransition):
		return http.StatusConflict, upgrades.ErrInvalidStateTransition.Error()
	case errors.Is(err, upgrades.ErrContention):
		return http.StatusServiceUnavailable, upgrades.ErrContention.Error()
	case errors.Is(err, upgrades.ErrRequestNotFound):
		return http.StatusNotFound, upgrades.ErrRequestNotFound.Error()
	case errors.Is(err, accounts.ErrAccountNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "already exists"
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// Respond writes err as {"error": ...}. Server errors are logged with the
// request id; their details never reach the client.
func Respond(c *gin.Context, err error) {
	code, msg := Status(err)
	if code == http.StatusServiceUnavailable {
		c.Header("Retry-After", RetryAfterSeconds)
	}
	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		logging.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// BindError answers a failed ShouldBindJSON with 400 and per-field messages
// when the body was well formed but invalid.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": fieldErrors(verrs),
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
}
