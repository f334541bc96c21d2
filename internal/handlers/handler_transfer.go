package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
	"github.com/wapify/credit_ledger_app/internal/dto"
	"github.com/wapify/credit_ledger_app/internal/middleware"
)

// transferHandler handles HTTP requests for credit transfers and issuances.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

// RegisterTransferRoutes registers transfer, issuance and per-account listing
// routes.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("/:entryID", h.getTransfer)
	}
	rg.POST("/issuances", h.issueCredits)
	rg.GET("/accounts/:accountID/transfers", h.listAccountTransfers)
}

// createTransfer godoc
// @Summary Transfer credits
// @Description Moves credits from a reseller account to a business owner account it manages. Atomic: balances and the ledger entry commit together.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Hierarchy policy violation"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 503 {object} ErrorResponse "Transient store failure, safe to retry"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.transferService.CreateTransfer(c.Request.Context(), actorUserID, req)
	if err != nil {
		h.respondTransferError(c, logger, err, "Failed to create transfer")
		return
	}

	logger.Info("Transfer completed",
		slog.Int64("entry_id", entry.EntryID),
		slog.String("from_account_id", entry.FromAccountID),
		slog.String("to_account_id", entry.ToAccountID),
		slog.Int64("amount", entry.Amount))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(entry))
}

// issueCredits godoc
// @Summary Issue credits
// @Description Mints credits into a reseller account. Admin only.
// @Tags transfers
// @Accept json
// @Produce json
// @Param issuance body dto.IssueCreditsRequest true "Issuance details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /issuances [post]
func (h *transferHandler) issueCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.IssueCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.transferService.IssueCredits(c.Request.Context(), actorUserID, req)
	if err != nil {
		h.respondTransferError(c, logger, err, "Failed to issue credits")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransferResponse(entry))
}

// getTransfer godoc
// @Summary Get a ledger entry
// @Description Retrieves one ledger entry by its id. Admins may read any entry; everyone else only entries touching their own account.
// @Tags transfers
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{entryID} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entryID, err := strconv.ParseInt(c.Param("entryID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Entry ID must be an integer"})
		return
	}

	entry, err := h.transferService.GetTransfer(c.Request.Context(), actorUserID, entryID)
	if err != nil {
		h.respondTransferError(c, logger, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(entry))
}

// listAccountTransfers godoc
// @Summary List an account's transfers
// @Description Retrieves a page of ledger entries where the account is sender or receiver, with optional time and counterpart role filters.
// @Tags transfers
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Cursor from a previous page"
// @Param from query string false "Inclusive lower bound (RFC 3339)"
// @Param to query string false "Inclusive upper bound (RFC 3339)"
// @Param counterpartRole query string false "Restrict to entries whose other party has this role"
// @Param descending query bool false "Newest first"
// @Success 200 {object} dto.ListTransfersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/transfers [get]
func (h *transferHandler) listAccountTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	accountID := c.Param("accountID")

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transferService.ListTransfersForAccount(c.Request.Context(), actorUserID, accountID, params)
	if err != nil {
		h.respondTransferError(c, logger, err, "Failed to list transfers")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondTransferError maps transfer engine errors to HTTP statuses.
// Transient store failures answer 503 with Retry-After so clients know an
// identical resubmission is safe.
func (h *transferHandler) respondTransferError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrTransient):
		logger.Warn("Transient failure during transfer", slog.String("error", err.Error()))
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Temporary failure, please retry the request"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallbackMsg})
	}
}
