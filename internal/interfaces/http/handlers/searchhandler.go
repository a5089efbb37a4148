package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/plansearch/internal/application/availability/usecases"
	"github.com/orris-inc/plansearch/internal/infrastructure/metrics"
	"github.com/orris-inc/plansearch/internal/shared/biztime"
	"github.com/orris-inc/plansearch/internal/shared/errors"
	"github.com/orris-inc/plansearch/internal/shared/logger"
	"github.com/orris-inc/plansearch/internal/shared/utils"
)

type SearchHandler struct {
	searchPlansUC searchPlansUseCase
	queryTimeout  time.Duration
	logger        logger.Interface
}

// NewSearchHandler creates the search handler. A non-positive queryTimeout
// leaves the request context unbounded.
func NewSearchHandler(searchPlansUC searchPlansUseCase, queryTimeout time.Duration, logger logger.Interface) *SearchHandler {
	return &SearchHandler{
		searchPlansUC: searchPlansUC,
		queryTimeout:  queryTimeout,
		logger:        logger,
	}
}

// SearchRequest is the query string of GET /search. Both bounds use
// YYYY-MM-DDTHH:MM:SS and are read as UTC.
type SearchRequest struct {
	StartsAt string `form:"starts_at" binding:"required"`
	EndsAt   string `form:"ends_at" binding:"required"`
}

// Search lists the plans that lie inside [starts_at, ends_at].
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.rejectQuery(c, "starts_at and ends_at are required", err)
		return
	}

	from, err := biztime.ParseNaive(req.StartsAt)
	if err != nil {
		h.rejectQuery(c, "starts_at must use the format "+biztime.Layout, err)
		return
	}
	to, err := biztime.ParseNaive(req.EndsAt)
	if err != nil {
		h.rejectQuery(c, "ends_at must use the format "+biztime.Layout, err)
		return
	}

	ctx := c.Request.Context()
	if h.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.queryTimeout)
		defer cancel()
	}

	result, err := h.searchPlansUC.Execute(ctx, usecases.SearchPlansQuery{From: from, To: to})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

func (h *SearchHandler) rejectQuery(c *gin.Context, message string, err error) {
	metrics.SearchRequestsTotal.WithLabelValues(metrics.StatusInvalid).Inc()
	h.logger.Debugw("rejected search query", "query", c.Request.URL.RawQuery, "error", err)
	utils.ErrorResponse(c, http.StatusBadRequest, errors.ErrorTypeValidation, message)
}
