package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/gateway"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	gateway       *gateway.Client
	frontendURL   string
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, gatewayClient *gateway.Client, frontendURL string, log *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		gateway:       gatewayClient,
		frontendURL:   frontendURL,
		logger:        log,
	}
}

type InitWalletRequest struct {
	Currency string `json:"currency" binding:"omitempty,oneof=IRR"`
}

type DepositRequest struct {
	Amount      int    `json:"amount" binding:"required,min=1000,max=100000000"`
	Description string `json:"description"`
}

type WithdrawRequest struct {
	Amount      int    `json:"amount" binding:"required,min=1000,max=100000000"`
	Description string `json:"description"`
}

type PurchaseSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required,oneof=MONTHLY QUARTERLY YEARLY"`
}

// Init godoc
// @Summary      Initialize wallet
// @Description  Get or create the wallet for the authenticated user
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body InitWalletRequest false "Wallet options"
// @Success      200  {object}  entity.Wallet
// @Router       /wallet/init [post]
func (h *WalletHandler) Init(c *gin.Context) {
	userID := c.GetString("user_id")

	var req InitWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletUseCase.GetOrCreateWallet(userID, req.Currency)
	if err != nil {
		h.logger.Error("Failed to init wallet: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize wallet"})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// Balance godoc
// @Summary      Get balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.walletUseCase.GetBalance(userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Deposit godoc
// @Summary      Create pending deposit
// @Description  Records a deposit intent; the balance is only credited after settlement
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DepositRequest true "Deposit amount"
// @Success      201  {object}  entity.Transaction
// @Router       /wallet/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.walletUseCase.CreatePendingDeposit(userID, req.Amount, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// MarkDepositSuccess godoc
// @Summary      Settle a deposit manually
// @Description  Marks a pending deposit as successful without a gateway. Idempotent.
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Transaction ID"
// @Success      200  {object}  entity.Transaction
// @Router       /wallet/deposit/{id}/success [post]
func (h *WalletHandler) MarkDepositSuccess(c *gin.Context) {
	transactionID := c.Param("id")

	tx, err := h.walletUseCase.MarkDepositSuccess(transactionID, "manual", "")
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// Withdraw godoc
// @Summary      Withdraw from wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WithdrawRequest true "Withdraw amount"
// @Success      201  {object}  entity.Transaction
// @Failure      400  {object}  map[string]string
// @Router       /wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID := c.GetString("user_id")

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.walletUseCase.Withdraw(userID, req.Amount, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// PurchaseSubscription godoc
// @Summary      Purchase a subscription plan with wallet balance
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseSubscriptionRequest true "Plan"
// @Success      201  {object}  entity.Transaction
// @Failure      400  {object}  map[string]string
// @Router       /wallet/purchase/subscription [post]
func (h *WalletHandler) PurchaseSubscription(c *gin.Context) {
	userID := c.GetString("user_id")

	var req PurchaseSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.walletUseCase.PurchaseSubscription(userID, entity.SubscriptionPlan(req.Plan))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// Transactions godoc
// @Summary      List wallet transactions
// @Description  Most recent first
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions (default 20)"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID := c.GetString("user_id")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	transactions, err := h.walletUseCase.ListTransactions(userID, limit)
	if err != nil {
		h.logger.Error("Failed to list transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// DepositZarinpal godoc
// @Summary      Start a Zarinpal deposit
// @Description  Creates a pending deposit and requests a payment from the gateway. The client must redirect the user to redirect_url.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body DepositRequest true "Deposit amount"
// @Success      200  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /wallet/deposit/zarinpal [post]
func (h *WalletHandler) DepositZarinpal(c *gin.Context) {
	userID := c.GetString("user_id")

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	description := req.Description
	if description == "" {
		description = "Wallet deposit"
	}

	tx, err := h.walletUseCase.CreatePendingDeposit(userID, req.Amount, description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	callbackPath := fmt.Sprintf("/api/v1/wallet/deposit/zarinpal/callback?transactionId=%s", tx.ID)
	payment, err := h.gateway.RequestPayment(c.Request.Context(), req.Amount, description, callbackPath)
	if err != nil {
		// The pending transaction stays in place; it can only ever
		// transition via an explicit settlement call.
		h.logger.Error("Zarinpal payment request failed for tx %s: %v", tx.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction":  tx,
		"authority":    payment.Authority,
		"redirect_url": payment.RedirectURL,
	})
}

// ZarinpalCallback is the redirect target the gateway sends the user's
// browser to. Every outcome resolves to a redirect onto the frontend result
// page, never an API error response. Driven by untrusted query parameters,
// so the persisted transaction amount is used for verification, not the
// echoed one, and settlement is idempotent against repeated callbacks.
//
// ZarinpalCallback godoc
// @Summary      Zarinpal payment callback
// @Tags         wallet
// @Param        Authority     query string true  "Gateway authority token"
// @Param        Status        query string true  "Gateway status (OK on success)"
// @Param        transactionId query string true  "Wallet transaction ID"
// @Param        amount        query int    false "Echoed amount (informational only)"
// @Success      302
// @Router       /wallet/deposit/zarinpal/callback [get]
func (h *WalletHandler) ZarinpalCallback(c *gin.Context) {
	authority := c.Query("Authority")
	status := c.Query("Status")
	transactionID := c.Query("transactionId")

	if status != "OK" {
		h.redirectResult(c, "failed", url.Values{"message": {"Payment canceled"}})
		return
	}

	tx, err := h.walletUseCase.GetTransactionByID(transactionID)
	if err != nil {
		if !errors.Is(err, entity.ErrTransactionNotFound) {
			h.logger.Error("Callback lookup failed for tx %s: %v", transactionID, err)
		}
		h.redirectResult(c, "failed", url.Values{"message": {"Transaction not found"}})
		return
	}

	verify, err := h.gateway.VerifyPayment(c.Request.Context(), authority, tx.Amount)
	if err != nil {
		h.logger.Error("Zarinpal verify failed for tx %s: %v", transactionID, err)
		h.redirectResult(c, "failed", url.Values{"message": {"Payment verification failed"}})
		return
	}

	if verify.Code == gateway.CodeVerified || verify.Code == gateway.CodeAlreadyVerified {
		refID := strconv.FormatInt(verify.RefID, 10)
		if _, err := h.walletUseCase.MarkDepositSuccess(transactionID, "zarinpal", refID); err != nil {
			h.logger.Error("Failed to settle verified deposit %s: %v", transactionID, err)
			h.redirectResult(c, "failed", url.Values{"message": {"Payment settlement failed"}})
			return
		}
		h.redirectResult(c, "ok", url.Values{
			"refId":  {refID},
			"amount": {strconv.Itoa(tx.Amount)},
		})
		return
	}

	h.redirectResult(c, "failed", url.Values{"message": {verify.Message}})
}

func (h *WalletHandler) redirectResult(c *gin.Context, status string, params url.Values) {
	params.Set("status", status)
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/payment/result?%s", h.frontendURL, params.Encode()))
}

func (h *WalletHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrWalletNotFound), errors.Is(err, entity.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInsufficientBalance),
		errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrUnknownPlan),
		errors.Is(err, entity.ErrNotADeposit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Wallet operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
