package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entitlements-app/internal/api/httperr"
	"entitlements-app/internal/app/http/middleware"
	"entitlements-app/internal/services/accounts"
)

type Handler struct {
	Accounts *accounts.Service
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.Accounts.Profile(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildMeResponse(profile))
}
