package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// priceLedgerHandler serves price history, manual edits, reverts and the item projection.
type priceLedgerHandler struct {
	ledgerService portssvc.PriceLedgerSvcFacade
	revertService portssvc.RevertSvc
	now           func() time.Time
}

func registerPriceLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.PriceLedgerSvcFacade, revertService portssvc.RevertSvc) {
	h := &priceLedgerHandler{ledgerService: ledgerService, revertService: revertService, now: time.Now}
	write := middleware.RequireRole(middleware.RolePricingWrite)

	prices := rg.Group("/prices")
	{
		prices.GET("/history", h.queryHistory)
		prices.GET("/entries/:entryID", h.getEntry)
		prices.POST("/entries/:entryID/revert", write, h.revert)
	}

	items := rg.Group("/items")
	{
		items.PUT("/:itemID", write, h.registerItem)
		items.GET("/:itemID/price", h.getCurrentPrice)
		items.POST("/:itemID/price", write, h.setPrice)
	}
}

// queryHistory godoc
// @Summary Browse price history
// @Description Pages through ledger entries whose validity interval overlaps [from, to], newest first. A plain-date "to" covers the whole day.
// @Tags prices
// @Produce  json
// @Param   itemId query string false "Priceable item ID"
// @Param   sku    query string false "SKU"
// @Param   from   query string false "Range start (YYYY-MM-DD or RFC3339)"
// @Param   to     query string false "Range end (YYYY-MM-DD or RFC3339)"
// @Param   reason query string false "Reason code"
// @Param   page   query int false "Page (1-based)"
// @Param   size   query int false "Page size (max 200)"
// @Success 200 {object} dto.PriceHistoryResponse
// @Failure 400 {object} errorResponse "Invalid filter"
// @Security BearerAuth
// @Router /prices/history [get]
func (h *priceLedgerHandler) queryHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPriceHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	page, err := h.ledgerService.QueryHistory(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to query price history")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceHistoryResponse(page))
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags prices
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.PriceLedgerEntryResponse
// @Failure 404 {object} errorResponse "Unknown entry"
// @Security BearerAuth
// @Router /prices/entries/{entryID} [get]
func (h *priceLedgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ledger entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceLedgerEntryResponse(entry))
}

// revert godoc
// @Summary Revert to a historical price
// @Description Appends a new current entry carrying the price of a historical entry. The historical entry is left untouched.
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Historical entry ID"
// @Param   request body dto.RevertPriceRequest false "Note recorded as reason code"
// @Success 201 {object} dto.PriceLedgerEntryResponse
// @Failure 403 {object} errorResponse "Missing pricing:write role"
// @Failure 404 {object} errorResponse "Unknown entry"
// @Failure 409 {object} errorResponse "Entry is already current"
// @Security BearerAuth
// @Router /prices/entries/{entryID}/revert [post]
func (h *priceLedgerHandler) revert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RevertPriceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err)
			return
		}
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	logger.Info("Received request to revert price", slog.String("entry_id", entryID))

	entry, err := h.revertService.Revert(c.Request.Context(), entryID, req.Note, h.now().UTC(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to revert price")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPriceLedgerEntryResponse(entry))
}

// registerItem godoc
// @Summary Register or refresh a priceable item
// @Description Upserts the engine's projection of a catalog item and its reference price
// @Tags items
// @Accept  json
// @Produce  json
// @Param   itemID path string true "Priceable item ID"
// @Param   item body dto.RegisterItemRequest true "Item details"
// @Success 200 {object} dto.PriceableItemResponse
// @Failure 400 {object} errorResponse "Invalid input"
// @Failure 403 {object} errorResponse "Missing pricing:write role"
// @Security BearerAuth
// @Router /items/{itemID} [put]
func (h *priceLedgerHandler) registerItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	item, err := h.ledgerService.RegisterItem(c.Request.Context(), c.Param("itemID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to register item")
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceableItemResponse(item))
}

// getCurrentPrice godoc
// @Summary Get the current price of an item
// @Tags items
// @Produce  json
// @Param   itemID path string true "Priceable item ID"
// @Success 200 {object} dto.PriceLedgerEntryResponse
// @Failure 404 {object} errorResponse "Item was never priced"
// @Security BearerAuth
// @Router /items/{itemID}/price [get]
func (h *priceLedgerHandler) getCurrentPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	entry, err := h.ledgerService.GetCurrent(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve current price")
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "item " + itemID + " has no current price", Code: codeNotFound})
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceLedgerEntryResponse(entry))
}

// setPrice godoc
// @Summary Set an item's price manually
// @Description Appends a new current entry. The reason code defaults to MANUAL.
// @Tags items
// @Accept  json
// @Produce  json
// @Param   itemID path string true "Priceable item ID"
// @Param   price body dto.SetPriceRequest true "New price"
// @Success 201 {object} dto.PriceLedgerEntryResponse
// @Failure 400 {object} errorResponse "Invalid price"
// @Failure 403 {object} errorResponse "Missing pricing:write role"
// @Failure 404 {object} errorResponse "Unknown item"
// @Security BearerAuth
// @Router /items/{itemID}/price [post]
func (h *priceLedgerHandler) setPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.SetManualPrice(c.Request.Context(), c.Param("itemID"), req, h.now().UTC(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to set price")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPriceLedgerEntryResponse(entry))
}
