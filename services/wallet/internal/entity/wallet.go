package entity

import (
	"errors"
	"time"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeRefund   TransactionType = "REFUND"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusSuccess  TransactionStatus = "SUCCESS"
	TransactionStatusFailed   TransactionStatus = "FAILED"
	TransactionStatusCanceled TransactionStatus = "CANCELED"
)

const CurrencyIRR = "IRR"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrUnknownPlan         = errors.New("unknown subscription plan")
	// ErrNotADeposit is returned when a settlement is attempted on a
	// withdraw/purchase transaction. Only deposits go through the
	// gateway-settlement path.
	ErrNotADeposit = errors.New("only deposits can be marked as success")
)

type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Balance   int       `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction amount is always positive; direction is encoded by Type.
type Transaction struct {
	ID           string            `json:"id"`
	WalletID     string            `json:"wallet_id"`
	UserID       string            `json:"user_id"`
	Amount       int               `json:"amount"`
	Type         TransactionType   `json:"type"`
	Status       TransactionStatus `json:"status"`
	Description  string            `json:"description,omitempty"`
	Gateway      string            `json:"gateway,omitempty"`
	GatewayRefID string            `json:"gateway_ref_id,omitempty"`
	CallbackURL  string            `json:"callback_url,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type SubscriptionPlan string

const (
	PlanMonthly   SubscriptionPlan = "MONTHLY"
	PlanQuarterly SubscriptionPlan = "QUARTERLY"
	PlanYearly    SubscriptionPlan = "YEARLY"
)

// SubscriptionPrices is the static price table in IRR (smallest unit).
var SubscriptionPrices = map[SubscriptionPlan]int{
	PlanMonthly:   150000,
	PlanQuarterly: 400000,
	PlanYearly:    1400000,
}

func (p SubscriptionPlan) Valid() bool {
	_, ok := SubscriptionPrices[p]
	return ok
}
