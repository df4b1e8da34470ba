package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"entitlements-app/internal/store"
)

// RequireLiveSubscription answers 402 when the caller has no live
// subscription. The upgrade service re-checks inside its transaction.
func RequireLiveSubscription(st *store.Store, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		sub, err := st.Read(c.Request.Context()).ActiveSubscription(UserID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
			return
		}
		if sub == nil {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Subscription not found"})
			return
		}
		if !sub.IsLive(now()) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Your subscription has expired"})
			return
		}
		c.Next()
	}
}
