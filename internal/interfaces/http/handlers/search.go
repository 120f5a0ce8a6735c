package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/patent-prophet/internal/application/search"
	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
	metrics "github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Results []search.Result `json:"results"`
}

// SearchHandler serves GET /api/v1/patents/search.
type SearchHandler struct {
	svc     *search.Service
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewSearchHandler(svc *search.Service, logger logging.Logger, m *metrics.Metrics) *SearchHandler {
	return &SearchHandler{svc: svc, logger: logger.Named("search_handler"), metrics: m}
}

// Search validates the query parameters and returns ranked results. A
// malformed limit falls back to the service default rather than erroring.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.svc.Search(c.Request.Context(), query, limit)
	if err != nil {
		status := "error"
		if appErrors.IsClientError(appErrors.GetCode(err)) {
			status = "invalid"
		} else {
			h.logger.Error("search failed", logging.String("query", query), logging.Err(err))
		}
		h.metrics.SearchRequests.WithLabelValues(status).Inc()
		respondError(c, err)
		return
	}

	h.metrics.SearchRequests.WithLabelValues("ok").Inc()
	if results == nil {
		results = []search.Result{}
	}
	c.JSON(http.StatusOK, SearchResponse{Results: results})
}
