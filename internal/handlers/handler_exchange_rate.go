package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/SscSPs/fx_backend/internal/dto"
	"github.com/SscSPs/fx_backend/internal/middleware"
	"github.com/SscSPs/fx_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// HeaderRatesStale marks answers served from an outdated cache because the provider could not be reached.
const HeaderRatesStale = "X-Rates-Stale"

// exchangeRateHandler handles HTTP requests related to exchange rates and conversions.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	conversionService   portssvc.ConversionSvcFacade
	posthogClient       *utils.PosthogClientWrapper
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, cs portssvc.ConversionSvcFacade, posthogClient *utils.PosthogClientWrapper) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
		conversionService:   cs,
		posthogClient:       posthogClient,
	}
}

// registerExchangeRateRoutes registers the public rate listing and the authenticated conversion endpoint.
func registerExchangeRateRoutes(public, protected *gin.RouterGroup, services *portssvc.ServiceContainer, posthogClient *utils.PosthogClientWrapper, convertLimit gin.HandlerFunc) {
	h := newExchangeRateHandler(services.ExchangeRate, services.Conversion, posthogClient)

	public.GET("/exchange-rates", h.getExchangeRates)
	protected.POST("/exchange-rates/convert", convertLimit, h.convertCurrency)
}

// getExchangeRates godoc
// @Summary Current exchange rates
// @Description Returns every supported rate quoted per one unit of the base currency. Served from cache while fresh.
// @Description When the provider is down and only an outdated cache exists, the header X-Rates-Stale is set to true.
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.ExchangeRatesResponse
// @Failure 503 {object} ErrorResponse "No rates available"
// @Failure 500 {object} ErrorResponse
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) getExchangeRates(c *gin.Context) {
	set, err := h.exchangeRateService.GetExchangeRates(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to get exchange rates")
		return
	}

	if set.Degraded {
		c.Header(HeaderRatesStale, "true")
	}
	c.JSON(http.StatusOK, dto.ToExchangeRatesResponse(set))
}

// convertCurrency godoc
// @Summary Convert an amount between currencies
// @Description Converts through the base currency at the current rates and records the conversion as a transaction.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertCurrencyRequest true "Conversion details"
// @Success 201 {object} dto.ConversionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or unsupported currency"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 503 {object} ErrorResponse "Rates unavailable"
// @Failure 500 {object} ErrorResponse "Failed to convert currency"
// @Security BearerAuth
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convertCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.conversionService.ConvertCurrency(c.Request.Context(), userID, req.FromCurrency, req.ToCurrency, *req.Amount)
	if err != nil {
		respondWithError(c, err, "Failed to convert currency")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "currency_converted", map[string]any{
		"from_currency": result.FromCurrency,
		"to_currency":   result.ToCurrency,
		"amount":        utils.FormatWithCurrencyPrecision(result.Amount, result.FromCurrency),
	})

	c.JSON(http.StatusCreated, dto.ToConversionResponse(result))
}
