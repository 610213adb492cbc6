package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/gin-gonic/gin"
)

// issuanceHandler handles HTTP requests for issuance accounting.
type issuanceHandler struct {
	issuanceService portssvc.IssuanceSvcFacade
}

// newIssuanceHandler creates a new issuanceHandler.
func newIssuanceHandler(is portssvc.IssuanceSvcFacade) *issuanceHandler {
	return &issuanceHandler{
		issuanceService: is,
	}
}

// registerIssuanceAdminRoutes registers the operator-only issuance routes.
func registerIssuanceAdminRoutes(rg *gin.RouterGroup, issuanceService portssvc.IssuanceSvcFacade) {
	h := newIssuanceHandler(issuanceService)

	issuance := rg.Group("/issuance")
	{
		issuance.GET("", h.getIssuanceSummary)
	}
}

// getIssuanceSummary godoc
// @Summary Get the outstanding issued supply
// @Description Totals what the issuer currently owes holders, read live from the ledger's trust lines.
// @Tags issuance
// @Produce  json
// @Success 200 {object} dto.IssuanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to read issuance"
// @Security BearerAuth
// @Router /admin/issuance [get]
func (h *issuanceHandler) getIssuanceSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.issuanceService.GetIssuanceSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read issuance from ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read issuance"})
		return
	}

	logger.Info("Issuance summary read",
		slog.String("total_issued", report.TotalIssued.String()),
		slog.Int("holders", report.HolderCount),
	)
	c.JSON(http.StatusOK, dto.ToIssuanceResponse(report))
}
