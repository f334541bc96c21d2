package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
	"github.com/wapify/credit_ledger_app/internal/dto"
	"github.com/wapify/credit_ledger_app/internal/middleware"
)

// reportingHandler handles HTTP requests for ledger aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	accountService   portssvc.AccountSvcFacade
	userService      portssvc.UserSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, as portssvc.AccountSvcFacade, us portssvc.UserSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		accountService:   as,
		userService:      us,
	}
}

// registerReportingRoutes registers aggregate endpoints.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, accountService portssvc.AccountSvcFacade, userService portssvc.UserSvcFacade) {
	h := newReportingHandler(reportingService, accountService, userService)

	rg.GET("/accounts/:accountID/stats", h.getAccountStats)
	rg.GET("/summary", h.getPlatformSummary)
}

// getAccountStats godoc
// @Summary Account activity stats
// @Description Aggregates an account's ledger history: totals sent and received, entry count, first and last activity, current balance.
// @Tags reporting
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountStatsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/stats [get]
func (h *reportingHandler) getAccountStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	allowed, err := h.mayViewAccount(c, actorUserID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to authorize stats request", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve account stats"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Cannot view another account's stats"})
		return
	}

	stats, err := h.reportingService.AccountStats(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to compute account stats", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve account stats"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountStatsResponse(stats))
}

// getPlatformSummary godoc
// @Summary Platform-wide summary
// @Description Total credits in circulation, transfer totals, issuance total, and a per-reseller breakdown. Admin only.
// @Tags reporting
// @Produce json
// @Success 200 {object} dto.PlatformSummaryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /summary [get]
func (h *reportingHandler) getPlatformSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	actor, err := h.userService.GetUserByID(c.Request.Context(), actorUserID)
	if err != nil {
		logger.Error("Failed to resolve acting user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve summary"})
		return
	}
	if actor.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin only"})
		return
	}

	summary, err := h.reportingService.PlatformSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute platform summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPlatformSummaryResponse(summary))
}

// mayViewAccount reports whether the actor may read the account's stats:
// admins always, everyone else only their own account.
func (h *reportingHandler) mayViewAccount(c *gin.Context, actorUserID, accountID string) (bool, error) {
	actor, err := h.userService.GetUserByID(c.Request.Context(), actorUserID)
	if err != nil {
		return false, err
	}
	if actor.Role == domain.RoleAdmin {
		return true, nil
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		return false, err
	}
	return account.UserID == actorUserID, nil
}
