package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/brixal/wallet-backend/internal/apperrors"
	"github.com/brixal/wallet-backend/internal/core/domain"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/internal/dto"
	"github.com/brixal/wallet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler exposes the administrative surface: account provisioning,
// account and wallet status control, transaction approval decisions. The
// service layer re-checks the caller's role against the account store; the
// token claim alone is not trusted.
type adminHandler struct {
	accountControl  portssvc.AccountControlSvcFacade
	approvalService portssvc.ApprovalSvcFacade
}

func newAdminHandler(ac portssvc.AccountControlSvcFacade, as portssvc.ApprovalSvcFacade) *adminHandler {
	return &adminHandler{
		accountControl:  ac,
		approvalService: as,
	}
}

// registerAdminRoutes registers the administrative routes.
func registerAdminRoutes(rg *gin.RouterGroup, accountControl portssvc.AccountControlSvcFacade, approvalService portssvc.ApprovalSvcFacade) {
	h := newAdminHandler(accountControl, approvalService)

	admin := rg.Group("/admin")
	{
		admin.POST("/accounts", h.createAccount)
		admin.GET("/accounts/:id", h.getAccount)
		admin.POST("/accounts/:id/lock", h.statusAction(h.accountControl.LockAccount, "lock account"))
		admin.POST("/accounts/:id/unlock", h.statusAction(h.accountControl.UnlockAccount, "unlock account"))
		admin.POST("/accounts/:id/freeze", h.statusAction(h.accountControl.FreezeWallets, "freeze wallets"))
		admin.POST("/accounts/:id/unfreeze", h.statusAction(h.accountControl.UnfreezeWallets, "unfreeze wallets"))
		admin.POST("/transactions/:id/approve", h.approveTransaction)
		admin.POST("/transactions/:id/reject", h.rejectTransaction)
	}
}

// createAccount godoc
// @Summary Provision a new account
// @Description Creates an account with a generated public handle. Admin only.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an administrator"
// @Security BearerAuth
// @Router /admin/accounts [post]
func (h *adminHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Admin account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountControl.CreateAccount(c.Request.Context(), req, adminID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Non-admin attempted account creation")
			c.JSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
		} else {
			logger.Error("Failed to create account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("handle", account.Handle))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves one account. Admin only.
// @Tags admin
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an administrator"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /admin/accounts/{id} [get]
func (h *adminHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if !middleware.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
		return
	}

	account, err := h.accountControl.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to get account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// statusAction adapts one account/wallet status operation into a handler.
// All four share the same request shape, error mapping and idempotent
// semantics; only the service call differs.
func (h *adminHandler) statusAction(action func(ctx context.Context, accountID, adminID string) error, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		accountID := c.Param("id")

		adminID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			logger.Error("Admin account ID not found in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := action(c.Request.Context(), accountID, adminID); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUnauthorized):
				logger.Warn("Non-admin attempted "+name, slog.String("target_account_id", accountID))
				c.JSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
			case errors.Is(err, apperrors.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			default:
				logger.Error("Failed to "+name, slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + name})
			}
			return
		}

		logger.Info("Admin action applied", slog.String("action", name), slog.String("target_account_id", accountID))
		c.Status(http.StatusNoContent)
	}
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Moves the transaction pending -> completed. No balance change: funds were earmarked at creation. Admin only.
// @Tags admin
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an administrator"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already resolved"
// @Security BearerAuth
// @Router /admin/transactions/{id}/approve [post]
func (h *adminHandler) approveTransaction(c *gin.Context) {
	h.resolveTransaction(c, h.approvalService.ApproveTransaction, "approve")
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Description Moves the transaction pending -> failed and refunds the principal. The network fee is kept. Admin only.
// @Tags admin
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an administrator"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already resolved"
// @Security BearerAuth
// @Router /admin/transactions/{id}/reject [post]
func (h *adminHandler) rejectTransaction(c *gin.Context) {
	h.resolveTransaction(c, h.approvalService.RejectTransaction, "reject")
}

func (h *adminHandler) resolveTransaction(c *gin.Context, decide func(ctx context.Context, transactionID, adminID string) (*domain.Transaction, error), name string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Admin account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := decide(c.Request.Context(), transactionID, adminID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			logger.Warn("Non-admin attempted transaction " + name)
			c.JSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrNotPending):
			logger.Warn("Transaction already resolved", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to "+name+" transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + name + " transaction"})
		}
		return
	}

	logger.Info("Transaction resolved", slog.String("transaction_id", transactionID), slog.String("decision", name))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
