package redirect

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/metrics"
)

// Handler handles redirect requests
type Handler struct {
	store        Store
	storeTimeout time.Duration
}

// NewHandler creates a new redirect handler
func NewHandler(db *gorm.DB, storeTimeout time.Duration) *Handler {
	return &Handler{store: NewStore(db), storeTimeout: storeTimeout}
}

// Redirect resolves a short code and sends the visitor to the original
// URL. The click increment runs before the redirect is written, but it
// is secondary telemetry: if it fails, the failure is logged and the
// visitor is redirected anyway. A 302 is used since the destination is
// owner-editable.
func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("shortCode")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.storeTimeout)
	defer cancel()

	link, err := h.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RedirectMisses.Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "Failed to resolve link"})
		return
	}

	if err := h.store.CountClick(ctx, link.ID); err != nil {
		log.Printf("redirect: failed to count click for %s: %v", code, err)
		metrics.ClicksDropped.Inc()
	}

	metrics.RedirectsServed.Inc()
	c.Redirect(http.StatusFound, link.OriginalURL)
}

// RegisterRoutes registers redirect routes on the root router
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/s/:shortCode", h.Redirect)
}
