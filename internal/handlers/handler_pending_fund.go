package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/brixal/wallet-backend/internal/apperrors"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/dto"
	"github.com/brixal/wallet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// pendingFundHandler handles HTTP requests for claimable, time-boxed credits.
type pendingFundHandler struct {
	pendingFundService portssvc.PendingFundSvcFacade
}

func newPendingFundHandler(ps portssvc.PendingFundSvcFacade) *pendingFundHandler {
	return &pendingFundHandler{
		pendingFundService: ps,
	}
}

// registerPendingFundRoutes registers routes related to pending funds.
func registerPendingFundRoutes(rg *gin.RouterGroup, pendingFundService portssvc.PendingFundSvcFacade) {
	h := newPendingFundHandler(pendingFundService)

	funds := rg.Group("/pending-funds")
	{
		funds.POST("", h.stagePendingFund)
		funds.GET("/:id", h.getPendingFund)
		funds.POST("/:id/claim", h.claimPendingFund)
	}
}

// stagePendingFund godoc
// @Summary Stage a claimable credit
// @Description Debits the sender and parks the amount as a fund the recipient can claim before expiry
// @Tags pending-funds
// @Accept  json
// @Produce  json
// @Param   fund body dto.StagePendingFundRequest true "Pending fund details"
// @Success 201 {object} dto.PendingFundResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Account locked or wallet frozen"
// @Failure 404 {object} map[string]string "Recipient not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /pending-funds [post]
func (h *pendingFundHandler) stagePendingFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StagePendingFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StagePendingFund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	senderID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Sender account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to stage pending fund", slog.String("recipient", req.RecipientAccountID))

	fund, err := h.pendingFundService.Stage(c.Request.Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Pending fund rejected by validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrAccountLocked), errors.Is(err, apperrors.ErrWalletFrozen):
			logger.Warn("Pending fund blocked by account or wallet status", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to stage pending fund", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stage pending fund"})
		}
		return
	}

	logger.Info("Pending fund staged", slog.String("pending_fund_id", fund.PendingFundID))
	c.JSON(http.StatusCreated, dto.ToPendingFundResponse(fund))
}

// claimPendingFund godoc
// @Summary Claim a pending fund
// @Description Credits the recipient's wallet with amount minus fee and marks the fund claimed. Only the recipient may claim, and only before expiry.
// @Tags pending-funds
// @Produce  json
// @Param   id path string true "Pending fund ID"
// @Success 200 {object} dto.PendingFundResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the recipient, account locked or wallet frozen"
// @Failure 404 {object} map[string]string "Pending fund not found"
// @Failure 409 {object} map[string]string "Already claimed or expired"
// @Security BearerAuth
// @Router /pending-funds/{id}/claim [post]
func (h *pendingFundHandler) claimPendingFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pendingFundID := c.Param("id")

	claimantID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Claimant account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("pending_fund_id", pendingFundID))
	logger.Info("Received request to claim pending fund")

	fund, err := h.pendingFundService.Claim(c.Request.Context(), pendingFundID, claimantID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending fund not found"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			logger.Warn("Claim attempted by non-recipient")
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the recipient may claim this fund"})
		case errors.Is(err, apperrors.ErrAlreadyClaimed), errors.Is(err, apperrors.ErrExpired):
			logger.Warn("Claim rejected, fund already resolved", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrAccountLocked), errors.Is(err, apperrors.ErrWalletFrozen):
			logger.Warn("Claim blocked by account or wallet status", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to claim pending fund", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim pending fund"})
		}
		return
	}

	logger.Info("Pending fund claimed")
	c.JSON(http.StatusOK, dto.ToPendingFundResponse(fund))
}

// getPendingFund godoc
// @Summary Get a pending fund by ID
// @Description Retrieves one pending fund. Only the sender, the recipient or an administrator may read it.
// @Tags pending-funds
// @Produce  json
// @Param   id path string true "Pending fund ID"
// @Success 200 {object} dto.PendingFundResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Pending fund not found"
// @Security BearerAuth
// @Router /pending-funds/{id} [get]
func (h *pendingFundHandler) getPendingFund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pendingFundID := c.Param("id")

	accountID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fund, err := h.pendingFundService.GetPendingFund(c.Request.Context(), pendingFundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending fund not found"})
		} else {
			logger.Error("Failed to get pending fund", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pending fund"})
		}
		return
	}

	if fund.SenderAccountID != accountID && fund.RecipientAccountID != accountID && !middleware.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPendingFundResponse(fund))
}
