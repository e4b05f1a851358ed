package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type roundingHandler struct {
	roundingService portssvc.RoundingSvcFacade
}

func registerRoundingRoutes(rg *gin.RouterGroup, roundingService portssvc.RoundingSvcFacade) {
	h := &roundingHandler{roundingService: roundingService}

	rounding := rg.Group("/rounding-config")
	{
		rounding.GET("", h.getRoundingConfig)
		rounding.PUT("", middleware.RequireRole(middleware.RolePricingWrite), h.replaceRoundingConfig)
	}
}

// getRoundingConfig godoc
// @Summary Get the rounding configuration
// @Description Returns the rounding configuration currently applied to recalculated prices
// @Tags rounding
// @Produce  json
// @Success 200 {object} dto.RoundingConfigResponse
// @Security BearerAuth
// @Router /rounding-config [get]
func (h *roundingHandler) getRoundingConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cfg, err := h.roundingService.GetRoundingConfig(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve rounding config")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoundingConfigResponse(cfg))
}

// replaceRoundingConfig godoc
// @Summary Replace the rounding configuration
// @Description Replaces the whole configuration. multiplo is required for MULTIPLO only and decimales for DECIMALES only.
// @Tags rounding
// @Accept  json
// @Produce  json
// @Param   config body dto.RoundingConfigRequest true "Rounding configuration"
// @Success 200 {object} dto.RoundingConfigResponse
// @Failure 400 {object} errorResponse "Malformed configuration"
// @Failure 403 {object} errorResponse "Missing pricing:write role"
// @Failure 409 {object} errorResponse "Replaced concurrently"
// @Security BearerAuth
// @Router /rounding-config [put]
func (h *roundingHandler) replaceRoundingConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RoundingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to replace rounding config", slog.String("mode", req.Mode))

	saved, err := h.roundingService.ReplaceRoundingConfig(c.Request.Context(), req.ToDomain(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to replace rounding config")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoundingConfigResponse(*saved))
}
