package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brixal/wallet-backend/internal/apperrors"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/dto"
	"github.com/brixal/wallet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles HTTP requests for peer-to-peer transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
	}
}

// registerTransferRoutes registers routes related to transfers.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("", h.listTransfers)
	}
}

// createTransfer godoc
// @Summary Send money to another account
// @Description Validates and executes a peer-to-peer transfer to the recipient's handle
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid amount or self transfer"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Account locked or wallet frozen"
// @Failure 404 {object} map[string]string "Recipient not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 429 {object} map[string]string "Transfer rate limit exceeded"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	senderID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Sender account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("to_handle", req.ToHandle))
	logger.Info("Received request to create transfer")

	transfer, err := h.transferService.Transfer(c.Request.Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrSelfTransfer):
			logger.Warn("Transfer rejected by validation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRecipientNotFound):
			logger.Warn("Transfer recipient not found")
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateLimited):
			logger.Warn("Transfer rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrAccountLocked), errors.Is(err, apperrors.ErrWalletFrozen):
			logger.Warn("Transfer blocked by account or wallet status", slog.String("error", err.Error()))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			logger.Warn("Transfer rejected for insufficient funds")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to execute transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute transfer"})
		}
		return
	}

	logger.Info("Transfer completed", slog.String("transfer_id", transfer.TransferID))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// listTransfers godoc
// @Summary List the caller's transfers
// @Description Returns transfers the authenticated account participated in, newest first
// @Tags transfers
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.TransferResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, offset := parsePagination(c)
	transfers, err := h.transferService.ListTransfers(c.Request.Context(), accountID, limit, offset)
	if err != nil {
		logger.Error("Failed to list transfers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transfers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponses(transfers))
}

// parsePagination reads limit/offset query params with sane defaults.
func parsePagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
