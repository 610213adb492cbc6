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

// swapHandler handles HTTP requests related to swaps.
type swapHandler struct {
	swapService portssvc.SwapSvcFacade
	userService portssvc.UserReaderSvc
}

// newSwapHandler creates a new swapHandler.
func newSwapHandler(ss portssvc.SwapSvcFacade, us portssvc.UserReaderSvc) *swapHandler {
	return &swapHandler{
		swapService: ss,
		userService: us,
	}
}

// RegisterSwapRoutes registers routes related to swap execution and quoting.
// Exported so handler tests can mount the routes on their own router.
func RegisterSwapRoutes(rg *gin.RouterGroup, swapService portssvc.SwapSvcFacade, userService portssvc.UserReaderSvc) {
	h := newSwapHandler(swapService, userService)

	swaps := rg.Group("/swaps")
	{
		swaps.POST("", h.executeSwap)
		swaps.POST("/quote", h.quoteSwap)
	}
}

// executeSwap godoc
// @Summary Execute a swap
// @Description Runs the full swap pipeline: access check, quote, then ledger settlement. Business failures (denied address, missing rate, rejected leg) come back inside the result body with HTTP 200.
// @Tags swaps
// @Accept  json
// @Produce  json
// @Param   swap body dto.SwapRequest true "Swap details"
// @Success 200 {object} dto.SwapResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to execute swap"
// @Security BearerAuth
// @Router /swaps [post]
func (h *swapHandler) executeSwap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExecuteSwap", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authenticated user no longer exists", slog.String("user_id", userID))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		logger.Error("Failed to load user for swap", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute swap"})
		return
	}

	logger = logger.With(slog.String("swap_type", req.SwapType), slog.String("user_id", userID))
	logger.Info("Received request to execute swap", slog.Any("amount", req.Amount))

	result, err := h.swapService.ExecuteSwap(c.Request.Context(), user, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error executing swap", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to execute swap in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute swap"})
		}
		return
	}

	logger.Info("Swap finished",
		slog.String("swap_id", result.SwapID),
		slog.String("status", string(result.Status)),
	)
	c.JSON(http.StatusOK, dto.ToSwapResultResponse(result))
}

// quoteSwap godoc
// @Summary Quote a swap
// @Description Prices a prospective swap without touching the ledger.
// @Tags swaps
// @Accept  json
// @Produce  json
// @Param   swap body dto.SwapRequest true "Swap details"
// @Success 200 {object} dto.SwapQuoteResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No active rate for the pair"
// @Failure 500 {object} map[string]string "Failed to quote swap"
// @Security BearerAuth
// @Router /swaps/quote [post]
func (h *swapHandler) quoteSwap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for QuoteSwap", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("swap_type", req.SwapType))
	logger.Info("Received request to quote swap", slog.Any("amount", req.Amount))

	quote, err := h.swapService.QuoteSwap(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error quoting swap", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No active rate for quote")
			c.JSON(http.StatusNotFound, gin.H{"error": "No active rate for the requested pair"})
		} else {
			logger.Error("Failed to quote swap in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to quote swap"})
		}
		return
	}

	logger.Info("Swap quoted successfully")
	c.JSON(http.StatusOK, dto.ToSwapQuoteResponse(quote))
}
