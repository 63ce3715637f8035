package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LinksCreated counts successfully created links.
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkkeep_links_created_total",
		Help: "Number of links created.",
	})

	// CodeCollisions counts short code allocation collisions, whether
	// seen at the existence check or at insert time.
	CodeCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkkeep_code_collisions_total",
		Help: "Number of short code collisions during allocation.",
	})

	// RedirectsServed counts successful short link redirects.
	RedirectsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkkeep_redirects_served_total",
		Help: "Number of redirects served.",
	})

	// RedirectMisses counts redirect requests for unknown codes.
	RedirectMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkkeep_redirect_misses_total",
		Help: "Number of redirect requests with no matching link.",
	})

	// ClicksDropped counts click increments that failed to persist.
	// The redirect is still served when this happens.
	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkkeep_click_increments_dropped_total",
		Help: "Number of click increments that failed to persist.",
	})
)

// Handler exposes the prometheus registry for a gin route.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
