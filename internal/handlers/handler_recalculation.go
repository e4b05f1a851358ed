package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recalculationHandler exposes the simulate/commit pair. Both take the same body so a
// caller can review a simulation and then commit it unchanged.
type recalculationHandler struct {
	recalculationService portssvc.RecalculationSvcFacade
}

func registerRecalculationRoutes(rg *gin.RouterGroup, recalculationService portssvc.RecalculationSvcFacade) {
	h := &recalculationHandler{recalculationService: recalculationService}

	recalculations := rg.Group("/recalculations")
	{
		recalculations.POST("/simulate", h.simulate)
		recalculations.POST("/commit", middleware.RequireRole(middleware.RolePricingWrite), h.commit)
	}
}

// simulate godoc
// @Summary Simulate a price recalculation
// @Description Computes the new price of every item denominated in the origin currency without writing anything
// @Tags recalculations
// @Accept  json
// @Produce  json
// @Param   request body dto.RecalculationRequest true "Currency pair and note"
// @Success 200 {object} dto.RecalculationSummaryResponse
// @Failure 400 {object} errorResponse "Invalid pair"
// @Failure 404 {object} errorResponse "No exchange rate in effect"
// @Security BearerAuth
// @Router /recalculations/simulate [post]
func (h *recalculationHandler) simulate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	summary, err := h.recalculationService.Simulate(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to simulate recalculation")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecalculationSummaryResponse(summary))
}

// commit godoc
// @Summary Commit a price recalculation
// @Description Appends a ledger entry for every item whose recalculated price differs from its current price. Per-item failures are reported in the summary.
// @Tags recalculations
// @Accept  json
// @Produce  json
// @Param   request body dto.RecalculationRequest true "Currency pair and note"
// @Success 200 {object} dto.RecalculationSummaryResponse "All changed items applied"
// @Success 207 {object} dto.RecalculationSummaryResponse "Some items failed, or the run was interrupted after applying part of the items"
// @Failure 400 {object} errorResponse "Invalid pair"
// @Failure 403 {object} errorResponse "Missing pricing:write role"
// @Failure 404 {object} errorResponse "No exchange rate in effect"
// @Security BearerAuth
// @Router /recalculations/commit [post]
func (h *recalculationHandler) commit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to commit recalculation",
		slog.String("origin", req.OriginCurrencyCode),
		slog.String("destination", req.DestinationCurrencyCode))

	summary, err := h.recalculationService.Commit(c.Request.Context(), req, userID)
	if err != nil && summary != nil {
		// Some items may already be applied; the caller reconciles from the items.
		logger.Warn("Recalculation commit interrupted",
			slog.Int("processed", len(summary.Items)),
			slog.Int("applied", summary.Impact.Applied),
			slog.String("error", err.Error()))
		resp := dto.ToRecalculationSummaryResponse(summary)
		resp.Error = err.Error()
		c.JSON(http.StatusMultiStatus, resp)
		return
	}
	if err != nil {
		respondError(c, logger, err, "Failed to commit recalculation")
		return
	}

	status := http.StatusOK
	if summary.Impact.Failed > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, dto.ToRecalculationSummaryResponse(summary))
}
