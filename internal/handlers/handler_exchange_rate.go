package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/SscSPs/pricing_engine/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", middleware.RequireRole(middleware.RolePricingWrite), h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds the rate of a currency pair effective from a date. Existing rates are never overwritten.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} errorResponse "Invalid input format or validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Missing pricing:write role"
// @Failure 409 {object} errorResponse "A rate for the pair and date already exists"
// @Failure 500 {object} errorResponse "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	creatorUserID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.Time("date_effective", req.DateEffective),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// getExchangeRate godoc
// @Summary Get the exchange rate in effect
// @Description Retrieves the rate with the latest effective date on or before the given date (today by default). There is no inverse or 1.0 fallback.
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} errorResponse "Invalid currency code or date"
// @Failure 404 {object} errorResponse "No rate in effect"
// @Failure 500 {object} errorResponse "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(domain.EffectiveDateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "date must be formatted as YYYY-MM-DD", Code: codeInvalidArgument})
			return
		}
		date = parsed
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))

	rate, err := h.exchangeRateService.GetRateEffectiveOn(c.Request.Context(), fromCode, toCode, date)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Description Pages through stored rates, newest effective date first
// @Tags exchange rates
// @Produce  json
// @Param   from query string false "From Currency Code"
// @Param   to   query string false "To Currency Code"
// @Param   page query int false "Page (1-based)"
// @Param   size query int false "Page size (max 200)"
// @Success 200 {object} dto.ListExchangeRatesResponse
// @Failure 400 {object} errorResponse "Invalid query"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	rates, total, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list exchange rates")
		return
	}

	page, size := pagination.Normalize(params.Page, params.Size)
	c.JSON(http.StatusOK, dto.ListExchangeRatesResponse{
		Rates: dto.ToListExchangeRateResponse(rates),
		Page:  page,
		Size:  size,
		Total: total,
	})
}
