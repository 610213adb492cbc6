package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/gin-gonic/gin"
)

// feeHandler handles HTTP requests related to fee policy.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

// newFeeHandler creates a new feeHandler.
func newFeeHandler(fs portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{
		feeService: fs,
	}
}

// registerFeeRoutes registers the user-facing fee routes.
func registerFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	fees := rg.Group("/fees")
	{
		fees.POST("/preview", h.previewFee)
	}
}

// registerFeeAdminRoutes registers the operator-only fee policy routes.
func registerFeeAdminRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	fees := rg.Group("/fees")
	{
		fees.POST("", h.activateFeeConfig)
		fees.GET("", h.listFeeConfigs)
		fees.GET("/:id", h.getFeeConfig)
		fees.DELETE("/:swapType", h.deactivateFeeConfigs)
		fees.POST("/simulate", h.simulateFee)
	}
}

// previewFee godoc
// @Summary Preview a fee
// @Description Prices an amount under the active fee config for a swap type. When no config is active the built-in default rate applies and the response says so.
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   preview body dto.FeePreviewRequest true "Amount to price"
// @Success 200 {object} dto.FeeBreakdownResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to price fee"
// @Security BearerAuth
// @Router /fees/preview [post]
func (h *feeHandler) previewFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FeePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PreviewFee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	swapType, err := domain.ParseSwapType(req.SwapType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	breakdown, err := h.feeService.CalculateFee(c.Request.Context(), swapType, req.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error previewing fee", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to preview fee in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price fee"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeBreakdownResponse(breakdown))
}

// activateFeeConfig godoc
// @Summary Install a new fee config
// @Description Installs a new fee config for a swap type, atomically retiring the previous active one.
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   config body dto.CreateFeeConfigRequest true "Fee config details"
// @Success 201 {object} dto.FeeConfigResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to install fee config"
// @Security BearerAuth
// @Router /admin/fees [post]
func (h *feeHandler) activateFeeConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFeeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ActivateFeeConfig", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("creator_user_id", creatorUserID),
		slog.String("swap_type", req.SwapType),
		slog.String("fee_type", req.FeeType),
	)
	logger.Info("Received request to activate fee config")

	installed, err := h.feeService.ActivateFeeConfig(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error activating fee config", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to activate fee config in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to install fee config"})
		}
		return
	}

	logger.Info("Fee config installed successfully", slog.String("fee_config_id", installed.FeeConfigID))
	c.JSON(http.StatusCreated, dto.ToFeeConfigResponse(installed))
}

// listFeeConfigs godoc
// @Summary List fee configs
// @Description Retrieves fee configs, optionally narrowed to one swap type, newest first.
// @Tags fees
// @Produce  json
// @Param   swapType query string false "Swap type filter"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.FeeConfigResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list fee configs"
// @Security BearerAuth
// @Router /admin/fees [get]
func (h *feeHandler) listFeeConfigs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListFeeConfigsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListFeeConfigs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var swapTypeFilter *domain.SwapType
	if params.SwapType != "" {
		swapType, err := domain.ParseSwapType(params.SwapType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		swapTypeFilter = &swapType
	}

	configs, err := h.feeService.ListFeeConfigs(c.Request.Context(), swapTypeFilter, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list fee configs from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fee configs"})
		return
	}

	logger.Info("Fee configs listed successfully", slog.Int("count", len(configs)))
	c.JSON(http.StatusOK, dto.ToListFeeConfigResponse(configs))
}

// getFeeConfig godoc
// @Summary Get a fee config
// @Description Retrieves a specific fee config by ID.
// @Tags fees
// @Produce  json
// @Param   id path string true "Fee config ID"
// @Success 200 {object} dto.FeeConfigResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Fee config not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fee config"
// @Security BearerAuth
// @Router /admin/fees/{id} [get]
func (h *feeHandler) getFeeConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	feeConfigID := c.Param("id")

	cfg, err := h.feeService.GetFeeConfigByID(c.Request.Context(), feeConfigID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Fee config not found", slog.String("fee_config_id", feeConfigID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee config not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get fee config from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee config"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeConfigResponse(cfg))
}

// deactivateFeeConfigs godoc
// @Summary Deactivate fee configs for a swap type
// @Description Retires all active fee configs for a swap type. Pricing falls back to the built-in default rate.
// @Tags fees
// @Produce  json
// @Param   swapType path string true "Swap type"
// @Success 200 {object} map[string]int64 "Number of retired records"
// @Failure 400 {object} map[string]string "Invalid swap type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to deactivate fee configs"
// @Security BearerAuth
// @Router /admin/fees/{swapType} [delete]
func (h *feeHandler) deactivateFeeConfigs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	swapType, err := domain.ParseSwapType(c.Param("swapType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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
		slog.String("swap_type", string(swapType)),
	)
	logger.Info("Received request to deactivate fee configs")

	count, err := h.feeService.DeactivateFeeConfigs(c.Request.Context(), swapType, updaterUserID)
	if err != nil {
		logger.Error("Failed to deactivate fee configs in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate fee configs"})
		return
	}

	logger.Info("Fee configs deactivated", slog.Int64("count", count))
	c.JSON(http.StatusOK, gin.H{"deactivated": count})
}

// simulateFee godoc
// @Summary Simulate a fee config
// @Description Prices sample amounts under a prospective config without persisting anything.
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   simulation body dto.SimulateFeeRequest true "Prospective config and sample amounts"
// @Success 200 {array} dto.FeeBreakdownResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to simulate fees"
// @Security BearerAuth
// @Router /admin/fees/simulate [post]
func (h *feeHandler) simulateFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SimulateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SimulateFee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	breakdowns, err := h.feeService.SimulateFee(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error simulating fees", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to simulate fees in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to simulate fees"})
		}
		return
	}

	logger.Info("Fees simulated successfully", slog.Int("count", len(breakdowns)))
	c.JSON(http.StatusOK, dto.ToListFeeBreakdownResponse(breakdowns))
}
