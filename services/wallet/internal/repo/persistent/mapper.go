package persistent

import (
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/model"
)

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		ID:        m.ID,
		UserID:    m.UserID,
		Balance:   m.Balance,
		Currency:  m.Currency,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:           m.ID,
		WalletID:     m.WalletID,
		UserID:       m.UserID,
		Amount:       m.Amount,
		Type:         entity.TransactionType(m.Type),
		Status:       entity.TransactionStatus(m.Status),
		Description:  m.Description,
		Gateway:      m.Gateway,
		GatewayRefID: m.GatewayRefID,
		CallbackURL:  m.CallbackURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:           e.ID,
		WalletID:     e.WalletID,
		UserID:       e.UserID,
		Amount:       e.Amount,
		Type:         string(e.Type),
		Status:       string(e.Status),
		Description:  e.Description,
		Gateway:      e.Gateway,
		GatewayRefID: e.GatewayRefID,
		CallbackURL:  e.CallbackURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
