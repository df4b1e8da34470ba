package upgrades

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"entitlements-app/internal/api/httperr"
	"entitlements-app/internal/app/http/middleware"
	domain "entitlements-app/internal/domain/upgrades"
	service "entitlements-app/internal/services/upgrades"
)

type Handler struct {
	Requests *service.RequestService
	Workflow *service.Workflow
}

/* ---------- teacher ---------- */

// POST /upgrade-request
func (h *Handler) CreateRequest(c *gin.Context) {
	var input domain.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httperr.BindError(c, err)
		return
	}

	req, err := h.Requests.CreateRequest(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GET /my-pending-request
func (h *Handler) MyPendingRequest(c *gin.Context) {
	req, err := h.Requests.PendingRequest(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// GET /upgrade-requests
func (h *Handler) MyRequests(c *gin.Context) {
	list, err := h.Requests.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if list == nil {
		list = []domain.UpgradeRequest{}
	}
	c.JSON(http.StatusOK, list)
}

/* ---------- admin ---------- */

// GET /admin/pending-requests
func (h *Handler) PendingRequests(c *gin.Context) {
	views, err := h.Workflow.ListPending(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if views == nil {
		views = []domain.PendingView{}
	}
	c.JSON(http.StatusOK, views)
}

// POST /admin/upgrade-request/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.Workflow.Approve)
}

// POST /admin/upgrade-request/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.Workflow.Reject)
}

type decideFunc func(ctx context.Context, adminID, requestID uint, in domain.DecisionInput) (*domain.UpgradeRequest, error)

func (h *Handler) decide(c *gin.Context, fn decideFunc) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}

	// the body is optional
	var input domain.DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		httperr.BindError(c, err)
		return
	}

	req, err := fn(c.Request.Context(), middleware.UserID(c), uint(id), input)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
