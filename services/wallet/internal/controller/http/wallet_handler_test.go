package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/AmirAliEidivandi/movie/pkg/config"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/gateway"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testFrontendURL = "http://localhost:3000"

// MockWalletUseCase is a mock implementation of WalletUseCase
type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetOrCreateWallet(userID, currency string) (*entity.Wallet, error) {
	args := m.Called(userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) GetBalance(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockWalletUseCase) CreatePendingDeposit(userID string, amount int, description string) (*entity.Transaction, error) {
	args := m.Called(userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) MarkDepositSuccess(transactionID, gatewayName, gatewayRefID string) (*entity.Transaction, error) {
	args := m.Called(transactionID, gatewayName, gatewayRefID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) Withdraw(userID string, amount int, description string) (*entity.Transaction, error) {
	args := m.Called(userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) PurchaseSubscription(userID string, plan entity.SubscriptionPlan) (*entity.Transaction, error) {
	args := m.Called(userID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) ListTransactions(userID string, limit int) ([]*entity.Transaction, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockWalletUseCase) GetTransactionByID(transactionID string) (*entity.Transaction, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

var _ usecase.WalletUseCase = (*MockWalletUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newTestGateway(baseURL string) *gateway.Client {
	return gateway.NewClient(&config.Config{
		ZarinpalMerchantID:      "test-merchant",
		ZarinpalAPIBaseURL:      baseURL,
		ZarinpalStartPayURL:     "https://sandbox.zarinpal.com/pg/StartPay",
		ZarinpalCallbackBaseURL: "http://localhost:8080",
	})
}

func authed(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler(c)
	}
}

func TestBalance(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	mockUseCase.On("GetBalance", "user-123").Return(25000, nil)

	router := setupTestRouter()
	router.GET("/wallet/balance", authed(handler.Balance))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/wallet/balance", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":25000}`, w.Body.String())
	mockUseCase.AssertExpectations(t)
}

func TestBalance_WalletNotFound(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	mockUseCase.On("GetBalance", "user-123").Return(0, entity.ErrWalletNotFound)

	router := setupTestRouter()
	router.GET("/wallet/balance", authed(handler.Balance))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/wallet/balance", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeposit(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	tx := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusPending}
	mockUseCase.On("CreatePendingDeposit", "user-123", 20000, "top up").Return(tx, nil)

	router := setupTestRouter()
	router.POST("/wallet/deposit", authed(handler.Deposit))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/deposit", bytes.NewBufferString(`{"amount":20000,"description":"top up"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "tx-1")
	mockUseCase.AssertExpectations(t)
}

func TestDeposit_AmountBelowMinimum(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	router := setupTestRouter()
	router.POST("/wallet/deposit", authed(handler.Deposit))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/deposit", bytes.NewBufferString(`{"amount":500}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "CreatePendingDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdraw_InsufficientBalance(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	mockUseCase.On("Withdraw", "user-123", 6000, "").Return(nil, entity.ErrInsufficientBalance)

	router := setupTestRouter()
	router.POST("/wallet/withdraw", authed(handler.Withdraw))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/withdraw", bytes.NewBufferString(`{"amount":6000}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient balance")
}

func TestPurchaseSubscription(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	tx := &entity.Transaction{ID: "tx-2", Amount: 150000, Type: entity.TransactionTypePurchase, Status: entity.TransactionStatusSuccess}
	mockUseCase.On("PurchaseSubscription", "user-123", entity.PlanMonthly).Return(tx, nil)

	router := setupTestRouter()
	router.POST("/wallet/purchase/subscription", authed(handler.PurchaseSubscription))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/purchase/subscription", bytes.NewBufferString(`{"plan":"MONTHLY"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestPurchaseSubscription_InvalidPlan(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	router := setupTestRouter()
	router.POST("/wallet/purchase/subscription", authed(handler.PurchaseSubscription))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/purchase/subscription", bytes.NewBufferString(`{"plan":"WEEKLY"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "PurchaseSubscription", mock.Anything, mock.Anything)
}

func TestMarkDepositSuccess_Manual(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	tx := &entity.Transaction{ID: "tx-1", Status: entity.TransactionStatusSuccess, Gateway: "manual"}
	mockUseCase.On("MarkDepositSuccess", "tx-1", "manual", "").Return(tx, nil)

	router := setupTestRouter()
	router.POST("/wallet/deposit/:id/success", authed(handler.MarkDepositSuccess))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/deposit/tx-1/success", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestDepositZarinpal(t *testing.T) {
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"code":100,"message":"Success","authority":"A00009999"},"errors":[]}`))
	}))
	defer gatewayServer.Close()

	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, newTestGateway(gatewayServer.URL), testFrontendURL, logger.New())

	tx := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusPending}
	mockUseCase.On("CreatePendingDeposit", "user-123", 20000, "Wallet deposit").Return(tx, nil)

	router := setupTestRouter()
	router.POST("/wallet/deposit/zarinpal", authed(handler.DepositZarinpal))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/deposit/zarinpal", bytes.NewBufferString(`{"amount":20000}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A00009999")
	assert.Contains(t, w.Body.String(), "StartPay/A00009999")
}

func TestDepositZarinpal_GatewayDown(t *testing.T) {
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	gatewayServer.Close()

	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, newTestGateway(gatewayServer.URL), testFrontendURL, logger.New())

	tx := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusPending}
	mockUseCase.On("CreatePendingDeposit", "user-123", 20000, "Wallet deposit").Return(tx, nil)

	router := setupTestRouter()
	router.POST("/wallet/deposit/zarinpal", authed(handler.DepositZarinpal))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/wallet/deposit/zarinpal", bytes.NewBufferString(`{"amount":20000}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// The pending transaction was already created; the gateway failure is
	// surfaced without rolling it back.
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestZarinpalCallback_GatewayReportsFailure(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	router := setupTestRouter()
	router.GET("/callback", handler.ZarinpalCallback)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/callback?Authority=A00001&Status=NOK&transactionId=tx-1", nil)
	router.ServeHTTP(w, req)

	// No lookup, no verify, just a failure redirect
	assert.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, testFrontendURL+"/payment/result")
	assert.Contains(t, location, "status=failed")
	mockUseCase.AssertNotCalled(t, "GetTransactionByID", mock.Anything)
}

func TestZarinpalCallback_TransactionNotFound(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, nil, testFrontendURL, logger.New())

	mockUseCase.On("GetTransactionByID", "missing").Return(nil, entity.ErrTransactionNotFound)

	router := setupTestRouter()
	router.GET("/callback", handler.ZarinpalCallback)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/callback?Authority=A00001&Status=OK&transactionId=missing", nil)
	router.ServeHTTP(w, req)

	// A bad transaction id still resolves to a redirect, never a 500
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=failed")
}

func TestZarinpalCallback_VerifySucceeds(t *testing.T) {
	var verifiedAmount float64
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			verifiedAmount, _ = body["amount"].(float64)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"code":100,"message":"Verified","ref_id":201234},"errors":[]}`))
	}))
	defer gatewayServer.Close()

	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, newTestGateway(gatewayServer.URL), testFrontendURL, logger.New())

	pending := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusPending}
	settled := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusSuccess, Gateway: "zarinpal", GatewayRefID: "201234"}
	mockUseCase.On("GetTransactionByID", "tx-1").Return(pending, nil)
	mockUseCase.On("MarkDepositSuccess", "tx-1", "zarinpal", "201234").Return(settled, nil)

	router := setupTestRouter()
	router.GET("/callback", handler.ZarinpalCallback)

	w := httptest.NewRecorder()
	// The query-string amount is wrong on purpose: verification must use
	// the persisted amount.
	req, _ := http.NewRequest("GET", "/callback?Authority=A00001&Status=OK&transactionId=tx-1&amount=999999", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, float64(20000), verifiedAmount)

	location := w.Header().Get("Location")
	parsed, err := url.Parse(location)
	assert.NoError(t, err)
	assert.Equal(t, "ok", parsed.Query().Get("status"))
	assert.Equal(t, "201234", parsed.Query().Get("refId"))
	assert.Equal(t, "20000", parsed.Query().Get("amount"))
	mockUseCase.AssertExpectations(t)
}

func TestZarinpalCallback_VerifyFails(t *testing.T) {
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"code":-51,"message":"Payment was not completed"},"errors":[]}`))
	}))
	defer gatewayServer.Close()

	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, newTestGateway(gatewayServer.URL), testFrontendURL, logger.New())

	pending := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusPending}
	mockUseCase.On("GetTransactionByID", "tx-1").Return(pending, nil)

	router := setupTestRouter()
	router.GET("/callback", handler.ZarinpalCallback)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/callback?Authority=A00001&Status=OK&transactionId=tx-1", nil)
	router.ServeHTTP(w, req)

	// Transaction stays pending, user lands on the failure page with the
	// gateway's message
	assert.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "status=failed")
	assert.Contains(t, location, url.QueryEscape("Payment was not completed"))
	mockUseCase.AssertNotCalled(t, "MarkDepositSuccess", mock.Anything, mock.Anything, mock.Anything)
}

func TestZarinpalCallback_RepeatedCallbackStaysSettled(t *testing.T) {
	gatewayServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"code":101,"message":"Already verified","ref_id":201234},"errors":[]}`))
	}))
	defer gatewayServer.Close()

	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, newTestGateway(gatewayServer.URL), testFrontendURL, logger.New())

	settled := &entity.Transaction{ID: "tx-1", Amount: 20000, Type: entity.TransactionTypeDeposit, Status: entity.TransactionStatusSuccess, Gateway: "zarinpal", GatewayRefID: "201234"}
	mockUseCase.On("GetTransactionByID", "tx-1").Return(settled, nil)
	mockUseCase.On("MarkDepositSuccess", "tx-1", "zarinpal", "201234").Return(settled, nil)

	router := setupTestRouter()
	router.GET("/callback", handler.ZarinpalCallback)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/callback?Authority=A00001&Status=OK&transactionId=tx-1", nil)
	router.ServeHTTP(w, req)

	// Code 101 (already verified) is treated as success and the idempotent
	// settlement keeps the callback safe to replay.
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=ok")
}
