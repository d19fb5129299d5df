package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Balance   int       `gorm:"default:0" json:"balance"`
	Currency  string    `gorm:"type:varchar(10);default:'IRR'" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WalletModel) TableName() string {
	return "wallets"
}

func (w *WalletModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

type TransactionModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	WalletID     string    `gorm:"type:uuid;not null;index:idx_wallet_created" json:"wallet_id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	Type         string    `gorm:"type:varchar(20);not null" json:"type"`
	Status       string    `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Description  string    `json:"description,omitempty"`
	Gateway      string    `json:"gateway,omitempty"`
	GatewayRefID string    `json:"gateway_ref_id,omitempty"`
	CallbackURL  string    `json:"callback_url,omitempty"`
	CreatedAt    time.Time `gorm:"index:idx_wallet_created,sort:desc" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (TransactionModel) TableName() string {
	return "wallet_transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
