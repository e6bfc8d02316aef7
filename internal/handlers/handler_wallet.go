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

// walletHandler serves the caller's wallet balances.
type walletHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newWalletHandler(ls portssvc.LedgerSvcFacade) *walletHandler {
	return &walletHandler{
		ledgerService: ls,
	}
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newWalletHandler(ledgerService)

	wallets := rg.Group("/wallets")
	{
		wallets.GET("", h.listWallets)
		wallets.GET("/:currency", h.getWallet)
	}
}

// listWallets godoc
// @Summary List the caller's wallets
// @Description Returns every wallet owned by the authenticated account
// @Tags wallets
// @Produce  json
// @Success 200 {array} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /wallets [get]
func (h *walletHandler) listWallets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallets, err := h.ledgerService.ListWallets(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to list wallets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list wallets"})
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponses(wallets))
}

// getWallet godoc
// @Summary Get one wallet by currency
// @Description Retrieves the caller's wallet for the given currency code
// @Tags wallets
// @Produce  json
// @Param   currency path string true "Currency code"
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Security BearerAuth
// @Router /wallets/{currency} [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyCode := c.Param("currency")

	accountID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallet, err := h.ledgerService.GetWallet(c.Request.Context(), accountID, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to get wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wallet"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}
