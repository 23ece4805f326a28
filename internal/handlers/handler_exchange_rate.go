package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	// now returns the date used when a resolve request carries no asOf.
	now func() time.Time
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers, now: time.Now}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, ers portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(ers)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/resolve", h.resolveExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds an exchange rate between two currencies for a specific date. A rate for the same pair and date is replaced.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.Time("rate_date", req.RateDate),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Tags exchange rates
// @Produce  json
// @Success 200 {array} dto.ExchangeRateResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// resolveExchangeRate godoc
// @Summary Resolve the rate posting would apply
// @Description Returns the latest rate on or before asOf, using the inverse pair when only that exists
// @Tags exchange rates
// @Produce  json
// @Param   from query string true "From Currency Code (3 letters)"
// @Param   to   query string true "To Currency Code (3 letters)"
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ResolvedRateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid currency code format"
// @Failure 422 {object} dto.ErrorResponse "Exchange rate not found (strict mode)"
// @Security BearerAuth
// @Router /exchange-rates/resolve [get]
func (h *exchangeRateHandler) resolveExchangeRate(c *gin.Context) {
	var params dto.ResolveRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if !actor.Can(domain.PermJournalRead) {
		respondError(c, apperrors.NewPermissionDeniedError(actor.UserID, string(domain.PermJournalRead)), "Failed to resolve exchange rate")
		return
	}

	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = h.now()
	}
	asOf = domain.DateOnly(asOf)
	from, to := strings.ToUpper(params.From), strings.ToUpper(params.To)

	rate, err := h.exchangeRateService.Resolve(c.Request.Context(), actor.OrganizationID, from, to, asOf)
	if err != nil {
		respondError(c, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ResolvedRateResponse{From: from, To: to, AsOf: asOf, Rate: rate})
}
