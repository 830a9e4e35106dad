package admin

import (
	"github.com/gin-gonic/gin"
)

// Admin endpoint paths
const (
	PathStats                = "/stats"
	PathPrometheusStats      = "/stats/prometheus"
	PathResetCounters        = "/reset_counters"
	PathRecentLookups        = "/stats/recentlookups"
	PathRecentLookupsClear   = "/stats/recentlookups/clear"
	PathRecentLookupsEnable  = "/stats/recentlookups/enable"
	PathRecentLookupsDisable = "/stats/recentlookups/disable"
)

// RegisterRoutes registers the stats routes. Mutating endpoints only accept
// POST.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET(PathStats, h.getStats)
	router.GET(PathPrometheusStats, h.getPrometheusStats)
	router.POST(PathResetCounters, h.postResetCounters)
	router.GET(PathRecentLookups, h.getRecentLookups)
	router.POST(PathRecentLookupsClear, h.postRecentLookupsClear)
	router.POST(PathRecentLookupsEnable, h.postRecentLookupsEnable)
	router.POST(PathRecentLookupsDisable, h.postRecentLookupsDisable)
}

// getStats handles GET /stats
func (h *Handler) getStats(c *gin.Context) {
	writeResponse(c, h.Stats(c.Request.Context(), c.Request.URL.Query()))
}

// getPrometheusStats handles GET /stats/prometheus
func (h *Handler) getPrometheusStats(c *gin.Context) {
	writeResponse(c, h.PrometheusStats(c.Request.Context(), c.Request.URL.Query()))
}

// postResetCounters handles POST /reset_counters
func (h *Handler) postResetCounters(c *gin.Context) {
	writeResponse(c, h.ResetCounters(c.Request.Context()))
}

// getRecentLookups handles GET /stats/recentlookups
func (h *Handler) getRecentLookups(c *gin.Context) {
	writeResponse(c, h.RecentLookups(c.Request.Context()))
}

// postRecentLookupsClear handles POST /stats/recentlookups/clear
func (h *Handler) postRecentLookupsClear(c *gin.Context) {
	writeResponse(c, h.ClearRecentLookups(c.Request.Context()))
}

// postRecentLookupsEnable handles POST /stats/recentlookups/enable
func (h *Handler) postRecentLookupsEnable(c *gin.Context) {
	writeResponse(c, h.EnableRecentLookups(c.Request.Context()))
}

// postRecentLookupsDisable handles POST /stats/recentlookups/disable
func (h *Handler) postRecentLookupsDisable(c *gin.Context) {
	writeResponse(c, h.DisableRecentLookups(c.Request.Context()))
}

func writeResponse(c *gin.Context, resp Response) {
	c.Data(resp.Status, resp.ContentType, []byte(resp.Body))
}
