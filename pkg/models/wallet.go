package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
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

type Wallet struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Balance   int       `gorm:"default:0" json:"balance"` // smallest currency unit, never fractional
	Currency  string    `gorm:"type:varchar(10);default:'IRR'" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WalletTransaction struct {
	ID           string            `gorm:"type:uuid;primary_key" json:"id"`
	WalletID     string            `gorm:"type:uuid;not null;index:idx_wallet_created" json:"wallet_id"`
	UserID       string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount       int               `gorm:"not null" json:"amount"` // always positive, direction encoded by Type
	Type         TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Status       TransactionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Description  string            `json:"description,omitempty"`
	Gateway      string            `json:"gateway,omitempty"`
	GatewayRefID string            `json:"gateway_ref_id,omitempty"`
	CallbackURL  string            `json:"callback_url,omitempty"`
	CreatedAt    time.Time         `gorm:"index:idx_wallet_created,sort:desc" json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
