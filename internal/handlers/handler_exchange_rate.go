package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(orgs *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := orgs.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/resolve", h.resolveExchangeRate)
	}
}

// createExchangeRate stores a manual rate, replacing one for the same pair and day.
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request format", err)
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("rate", req.Rate.String()),
		slog.Time("date_effective", req.DateEffective),
	)

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create exchange rate")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}
	asOf, err := parseOptionalDate(params.AsOf)
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), c.Param("orgID"), domain.ExchangeRateFilter{
		FromCurrencyCode: params.From,
		ToCurrencyCode:   params.To,
		AsOf:             asOf,
	})
	if err != nil {
		respondError(c, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// resolveExchangeRate handles GET /organizations/:orgID/exchange-rates/resolve?from=&to=&date=.
// A pair with no usable rate answers 422.
func (h *exchangeRateHandler) resolveExchangeRate(c *gin.Context) {
	var params dto.ResolveRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}
	date, err := time.Parse(dateLayout, params.Date)
	if err != nil {
		badRequest(c, "date", err)
		return
	}

	rate, err := h.exchangeRateService.GetRate(c.Request.Context(), c.Param("orgID"), params.From, params.To, date)
	if err != nil {
		respondError(c, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ResolveRateResponse{From: params.From, To: params.To, Date: params.Date, Rate: rate})
}
