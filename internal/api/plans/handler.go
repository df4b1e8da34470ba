package plans

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entitlements-app/internal/api/httperr"
	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/store"
)

type Handler struct {
	Store *store.Store
	// Prices is nil when Stripe is not configured; sync then answers 503.
	Prices PriceSource
}

// GET /plans
func (h *Handler) ListPlans(c *gin.Context) {
	list, err := h.Store.Read(c.Request.Context()).ListPlans()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if list == nil {
		list = []plans.Plan{}
	}
	c.JSON(http.StatusOK, list)
}

// POST /admin/plans/sync
func (h *Handler) SyncPlansFromStripe(c *gin.Context) {
	if h.Prices == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe key not configured"})
		return
	}

	prices, err := h.Prices.RecurringPrices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch Stripe prices"})
		return
	}

	var res SyncResult
	err = h.Store.InTx(c.Request.Context(), func(tx *store.Tx) error {
		var err error
		res, err = applyPrices(tx, prices)
		return err
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
