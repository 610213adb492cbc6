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

// accessHandler handles HTTP requests related to token access control.
type accessHandler struct {
	accessService portssvc.AccessSvcFacade
}

// newAccessHandler creates a new accessHandler.
func newAccessHandler(as portssvc.AccessSvcFacade) *accessHandler {
	return &accessHandler{
		accessService: as,
	}
}

// registerAccessAdminRoutes registers the operator-only access control
// routes.
func registerAccessAdminRoutes(rg *gin.RouterGroup, accessService portssvc.AccessSvcFacade) {
	h := newAccessHandler(accessService)

	domains := rg.Group("/domains")
	{
		domains.POST("", h.createDomain)
		domains.GET("", h.listDomains)
		domains.GET("/active", h.getActiveDomain)
		domains.POST("/:id/activate", h.activateDomain)
		domains.PUT("/:id/settings", h.updateDomainSettings)
	}

	whitelist := rg.Group("/whitelist")
	{
		whitelist.POST("", h.addToWhitelist)
		whitelist.DELETE("/:address", h.removeFromWhitelist)
		whitelist.PUT("/:address/kyc", h.updateKYCStatus)
	}

	blacklist := rg.Group("/blacklist")
	{
		blacklist.POST("", h.addToBlacklist)
		blacklist.DELETE("/:address", h.removeFromBlacklist)
	}

	permissions := rg.Group("/permissions")
	{
		permissions.GET("/:address", h.checkPermission)
	}

	trustlines := rg.Group("/trustlines")
	{
		trustlines.POST("/created", h.trustLineCreated)
	}
}

// createDomain godoc
// @Summary Create a permission domain
// @Description Persists a new permission domain. The first domain created becomes active automatically.
// @Tags access
// @Accept  json
// @Produce  json
// @Param   domain body dto.CreateDomainRequest true "Domain details"
// @Success 201 {object} dto.DomainResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to create domain"
// @Security BearerAuth
// @Router /admin/domains [post]
func (h *accessHandler) createDomain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDomain", slog.String("error", err.Error()))
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
		slog.String("domain_name", req.Name),
		slog.String("domain_type", req.DomainType),
	)
	logger.Info("Received request to create domain")

	created, err := h.accessService.CreateDomain(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating domain", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create domain in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create domain"})
		}
		return
	}

	logger.Info("Domain created successfully", slog.String("domain_id", created.DomainID))
	c.JSON(http.StatusCreated, dto.ToDomainResponse(created))
}

// listDomains godoc
// @Summary List permission domains
// @Description Retrieves all domains without their member lists.
// @Tags access
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.DomainResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to list domains"
// @Security BearerAuth
// @Router /admin/domains [get]
func (h *accessHandler) listDomains(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDomainsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDomains", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	domains, err := h.accessService.ListDomains(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list domains from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list domains"})
		return
	}

	logger.Info("Domains listed successfully", slog.Int("count", len(domains)))
	c.JSON(http.StatusOK, dto.ToListDomainResponse(domains))
}

// getActiveDomain godoc
// @Summary Get the active domain
// @Description Retrieves the active permission domain with its whitelist and blacklist.
// @Tags access
// @Produce  json
// @Success 200 {object} dto.DomainResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active domain"
// @Failure 500 {object} map[string]string "Failed to retrieve domain"
// @Security BearerAuth
// @Router /admin/domains/active [get]
func (h *accessHandler) getActiveDomain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	active, err := h.accessService.GetActiveDomain(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No active domain configured")
			c.JSON(http.StatusNotFound, gin.H{"error": "No active permission domain"})
		} else {
			logger.Error("Failed to get active domain from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve domain"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDomainResponse(active))
}

// activateDomain godoc
// @Summary Activate a domain
// @Description Makes the given domain the single active one.
// @Tags access
// @Produce  json
// @Param   id path string true "Domain ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Domain not found"
// @Failure 500 {object} map[string]string "Failed to activate domain"
// @Security BearerAuth
// @Router /admin/domains/{id}/activate [post]
func (h *accessHandler) activateDomain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	domainID := c.Param("id")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("domain_id", domainID), slog.String("updater_user_id", updaterUserID))
	logger.Info("Received request to activate domain")

	if err := h.accessService.ActivateDomain(c.Request.Context(), domainID, updaterUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Domain not found for activation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Domain not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to activate domain in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate domain"})
		}
		return
	}

	logger.Info("Domain activated successfully")
	c.Status(http.StatusNoContent)
}

// updateDomainSettings godoc
// @Summary Update domain settings
// @Description Changes the behavior flags of a domain. Omitted fields keep their current value.
// @Tags access
// @Accept  json
// @Produce  json
// @Param   id path string true "Domain ID"
// @Param   settings body dto.UpdateDomainSettingsRequest true "Settings to change"
// @Success 200 {object} dto.DomainResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Domain not found"
// @Failure 500 {object} map[string]string "Failed to update settings"
// @Security BearerAuth
// @Router /admin/domains/{id}/settings [put]
func (h *accessHandler) updateDomainSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	domainID := c.Param("id")
	var req dto.UpdateDomainSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDomainSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("domain_id", domainID), slog.String("updater_user_id", updaterUserID))
	logger.Info("Received request to update domain settings")

	updated, err := h.accessService.UpdateDomainSettings(c.Request.Context(), domainID, req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Domain not found for settings update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Domain not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update domain settings in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		}
		return
	}

	logger.Info("Domain settings updated successfully")
	c.JSON(http.StatusOK, dto.ToDomainResponse(updated))
}

// addToWhitelist godoc
// @Summary Whitelist an address
// @Description Admits an address to the active domain's whitelist. Re-adding an existing address updates its KYC status and note.
// @Tags access
// @Accept  json
// @Produce  json
// @Param   entry body dto.AddWhitelistRequest true "Address to whitelist"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active domain"
// @Failure 500 {object} map[string]string "Failed to whitelist address"
// @Security BearerAuth
// @Router /admin/whitelist [post]
func (h *accessHandler) addToWhitelist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddWhitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddToWhitelist", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adder user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accessService.AddToWhitelist(c.Request.Context(), req, adderUserID); err != nil {
		h.respondListMutationError(c, logger, "whitelist", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// removeFromWhitelist godoc
// @Summary Remove an address from the whitelist
// @Description Drops an address from the active domain's whitelist.
// @Tags access
// @Produce  json
// @Param   address path string true "Ledger address"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid address"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active domain or address not listed"
// @Failure 500 {object} map[string]string "Failed to remove address"
// @Security BearerAuth
// @Router /admin/whitelist/{address} [delete]
func (h *accessHandler) removeFromWhitelist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	removerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Remover user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accessService.RemoveFromWhitelist(c.Request.Context(), c.Param("address"), removerUserID); err != nil {
		h.respondListMutationError(c, logger, "whitelist", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// updateKYCStatus godoc
// @Summary Update KYC status
// @Description Changes the KYC status of a whitelisted address on the active domain.
// @Tags access
// @Accept  json
// @Produce  json
// @Param   address path string true "Ledger address"
// @Param   status body dto.UpdateKYCRequest true "New KYC status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active domain or address not listed"
// @Failure 500 {object} map[string]string "Failed to update KYC status"
// @Security BearerAuth
// @Router /admin/whitelist/{address}/kyc [put]
func (h *accessHandler) updateKYCStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateKYCStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.accessService.UpdateKYCStatus(c.Request.Context(), c.Param("address"), domain.KYCStatus(req.Status), updaterUserID)
	if err != nil {
		h.respondListMutationError(c, logger, "whitelist", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// addToBlacklist godoc
// @Summary Blacklist an address
// @Description Bars an address on the active domain's blacklist. The blacklist wins over every other list.
// @Tags access
// @Accept  json
// @Produce  json
// @Param   entry body dto.AddBlacklistRequest true "Address to blacklist"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active domain"
// @Failure 500 {object} map[string]string "Failed to blacklist address"
// @Security BearerAuth
// @Router /admin/blacklist [post]
func (h *accessHandler) addToBlacklist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddToBlacklist", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adder user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accessService.AddToBlacklist(c.Request.Context(), req, adderUserID); err != nil {
		h.respondListMutationError(c, logger, "blacklist", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// removeFromBlacklist godoc
// @Summary Remove an address from the blacklist
// @Description Drops an address from the active domain's blacklist.
// @Tags access
// @Produce  json
// @Param   address path string true "Ledger address"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid address"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active domain or address not listed"
// @Failure 500 {object} map[string]string "Failed to remove address"
// @Security BearerAuth
// @Router /admin/blacklist/{address} [delete]
func (h *accessHandler) removeFromBlacklist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	removerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Remover user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accessService.RemoveFromBlacklist(c.Request.Context(), c.Param("address"), removerUserID); err != nil {
		h.respondListMutationError(c, logger, "blacklist", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// checkPermission godoc
// @Summary Check an address against the gate
// @Description Reports whether an address may hold or trade the issued token under the active domain, with the reason.
// @Tags access
// @Produce  json
// @Param   address path string true "Ledger address"
// @Success 200 {object} dto.PermissionCheckResponse
// @Failure 400 {object} map[string]string "Invalid address"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to check permission"
// @Security BearerAuth
// @Router /admin/permissions/{address} [get]
func (h *accessHandler) checkPermission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	address := c.Param("address")

	decision, err := h.accessService.CheckPermission(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to check permission in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permission"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionCheckResponse(address, decision))
}

// trustLineCreated godoc
// @Summary Report a created trust line
// @Description Reacts to a newly observed trust line toward the issuer. On a domain with auto approval the holder is whitelisted with pending KYC.
// @Tags access
// @Accept  json
// @Produce  json
// @Param   event body dto.TrustLineCreatedRequest true "Trust line holder"
// @Success 200 {object} map[string]bool "whitelisted: false when nothing changed"
// @Success 201 {object} dto.WhitelistEntryResponse "The auto-approved entry"
// @Failure 400 {object} map[string]string "Invalid address"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to handle trust line"
// @Security BearerAuth
// @Router /admin/trustlines/created [post]
func (h *accessHandler) trustLineCreated(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TrustLineCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TrustLineCreated", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.accessService.HandleTrustLineCreated(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to handle trust line in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle trust line"})
		}
		return
	}

	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"whitelisted": false})
		return
	}

	logger.Info("Trust line holder auto-approved", slog.String("address", entry.Address))
	c.JSON(http.StatusCreated, dto.WhitelistEntryResponse{
		Address:   entry.Address,
		KYCStatus: string(entry.KYCStatus),
		Note:      entry.Note,
		AddedAt:   entry.AddedAt,
		AddedBy:   entry.AddedBy,
	})
}

// respondListMutationError maps the shared failure modes of the list
// mutation endpoints.
func (h *accessHandler) respondListMutationError(c *gin.Context, logger *slog.Logger, list string, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error mutating "+list, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Target missing for " + list + " mutation")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Failed to mutate "+list, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update " + list})
}
