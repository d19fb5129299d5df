package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestWallet_BeforeCreate(t *testing.T) {
	wallet := &Wallet{
		UserID:  "user-123",
		Balance: 0,
	}

	err := wallet.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, wallet.ID)
}

func TestWalletTransaction_BeforeCreate(t *testing.T) {
	tx := &WalletTransaction{
		WalletID: "wallet-123",
		UserID:   "user-123",
		Amount:   20000,
		Type:     TransactionTypeDeposit,
		Status:   TransactionStatusPending,
	}

	err := tx.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
}

func TestTransactionType_Constants(t *testing.T) {
	assert.Equal(t, TransactionType("DEPOSIT"), TransactionTypeDeposit)
	assert.Equal(t, TransactionType("WITHDRAW"), TransactionTypeWithdraw)
	assert.Equal(t, TransactionType("PURCHASE"), TransactionTypePurchase)
	assert.Equal(t, TransactionType("REFUND"), TransactionTypeRefund)
}

func TestTransactionStatus_Constants(t *testing.T) {
	assert.Equal(t, TransactionStatus("PENDING"), TransactionStatusPending)
	assert.Equal(t, TransactionStatus("SUCCESS"), TransactionStatusSuccess)
	assert.Equal(t, TransactionStatus("FAILED"), TransactionStatusFailed)
	assert.Equal(t, TransactionStatus("CANCELED"), TransactionStatusCanceled)
}
