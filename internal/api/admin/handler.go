package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"entitlements-app/internal/api/httperr"
	"entitlements-app/internal/app/http/middleware"
	"entitlements-app/internal/services/accounts"
	"entitlements-app/internal/store"
)

type Handler struct {
	Accounts *accounts.Service
}

// GET /admin/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	list, err := h.Accounts.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if list == nil {
		list = []store.AccountSummary{}
	}
	c.JSON(http.StatusOK, list)
}

// POST /admin/accounts/:id/approve
func (h *Handler) ApproveAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account id"})
		return
	}

	res, err := h.Accounts.Approve(c.Request.Context(), middleware.UserID(c), uint(id))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
