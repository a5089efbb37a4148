package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/plansearch/internal/shared/logger"
	"github.com/orris-inc/plansearch/internal/shared/utils"
	"github.com/orris-inc/plansearch/internal/shared/version"
)

const storePingTimeout = 2 * time.Second

type HealthHandler struct {
	checkStoreHealthUC checkStoreHealthUseCase
	logger             logger.Interface
}

func NewHealthHandler(checkStoreHealthUC checkStoreHealthUseCase, logger logger.Interface) *HealthHandler {
	return &HealthHandler{
		checkStoreHealthUC: checkStoreHealthUC,
		logger:             logger,
	}
}

// HealthResponse is the body of both health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Store   string `json:"store,omitempty"`
}

// Health reports that the process is serving.
func (h *HealthHandler) Health(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
	})
}

// FullHealth additionally pings the KV store and answers 503 when it is
// unreachable.
func (h *HealthHandler) FullHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storePingTimeout)
	defer cancel()

	if err := h.checkStoreHealthUC.Execute(ctx); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
		Store:   "ok",
	})
}
