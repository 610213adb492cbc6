package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to exchange rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{
		rateService: rs,
	}
}

// registerRateRoutes registers the user-facing rate routes.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.GET("/:base/:quote", h.getCurrentRate)
	}
}

// registerRateAdminRoutes registers the operator-only rate routes.
func registerRateAdminRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.POST("", h.upsertRate)
		rates.GET("", h.listRateHistory)
		rates.DELETE("/:base/:quote", h.deactivateRates)
	}
}

// getCurrentRate godoc
// @Summary Get the current rate
// @Description Retrieves the effective exchange rate for a pair right now, including the spread-derived bid and ask.
// @Tags rates
// @Produce  json
// @Param   base path string true "Base asset code"
// @Param   quote path string true "Quote asset code"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid asset codes"
// @Failure 404 {object} map[string]string "No active rate for the pair"
// @Failure 500 {object} map[string]string "Failed to retrieve rate"
// @Security BearerAuth
// @Router /rates/{base}/{quote} [get]
func (h *rateHandler) getCurrentRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := c.Param("base")
	quote := c.Param("quote")

	logger = logger.With(slog.String("base", base), slog.String("quote", quote))
	logger.Info("Received request to get current rate")

	rate, err := h.rateService.GetCurrentRate(c.Request.Context(), base, quote)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error getting rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No active rate for pair")
			c.JSON(http.StatusNotFound, gin.H{"error": "No active rate for the requested pair"})
		} else {
			logger.Error("Failed to get rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		}
		return
	}

	logger.Info("Rate retrieved successfully")
	c.JSON(http.StatusOK, dto.ToRateResponse(rate))
}

// upsertRate godoc
// @Summary Install a new rate
// @Description Installs a new exchange rate for a pair, atomically retiring the previous active record.
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.UpsertRateRequest true "Rate details"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to install rate"
// @Security BearerAuth
// @Router /admin/rates [post]
func (h *rateHandler) upsertRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("updater_user_id", updaterUserID),
		slog.String("base", req.BaseAsset),
		slog.String("quote", req.QuoteAsset),
	)
	logger.Info("Received request to upsert rate", slog.Any("rate", req.Rate))

	installed, err := h.rateService.UpsertRate(c.Request.Context(), req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error upserting rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to upsert rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to install rate"})
		}
		return
	}

	logger.Info("Rate installed successfully", slog.String("rate_id", installed.RateID))
	c.JSON(http.StatusCreated, dto.ToRateResponse(installed))
}

// listRateHistory godoc
// @Summary List rate history
// @Description Retrieves past and present rate records for a pair, newest first.
// @Tags rates
// @Produce  json
// @Param   base query string true "Base asset code"
// @Param   quote query string true "Quote asset code"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list rates"
// @Security BearerAuth
// @Router /admin/rates [get]
func (h *rateHandler) listRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.RateHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListRateHistory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("base", params.BaseAsset), slog.String("quote", params.QuoteAsset))
	logger.Info("Received request to list rate history", slog.Int("limit", params.Limit), slog.Int("offset", params.Offset))

	rates, err := h.rateService.ListRateHistory(c.Request.Context(), params.BaseAsset, params.QuoteAsset, params.Limit, params.Offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing rate history", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list rate history from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rates"})
		}
		return
	}

	logger.Info("Rate history listed successfully", slog.Int("count", len(rates)))
	c.JSON(http.StatusOK, dto.ToListRateResponse(rates))
}

// deactivateRates godoc
// @Summary Deactivate rates for a pair
// @Description Retires all active rates for a pair. Quoting for the pair fails until a new rate is installed.
// @Tags rates
// @Produce  json
// @Param   base path string true "Base asset code"
// @Param   quote path string true "Quote asset code"
// @Success 200 {object} map[string]int64 "Number of retired records"
// @Failure 400 {object} map[string]string "Invalid asset codes"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to deactivate rates"
// @Security BearerAuth
// @Router /admin/rates/{base}/{quote} [delete]
func (h *rateHandler) deactivateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := c.Param("base")
	quote := c.Param("quote")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("updater_user_id", updaterUserID),
		slog.String("base", base),
		slog.String("quote", quote),
	)
	logger.Info("Received request to deactivate rates")

	count, err := h.rateService.DeactivateRates(c.Request.Context(), base, quote, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error deactivating rates", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to deactivate rates in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate rates"})
		}
		return
	}

	logger.Info("Rates deactivated", slog.Int64("count", count))
	c.JSON(http.StatusOK, gin.H{"deactivated": count})
}
