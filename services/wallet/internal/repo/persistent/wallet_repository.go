package persistent

import (
	"errors"

	"github.com/AmirAliEidivandi/movie/services/wallet/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/model"

	"gorm.io/gorm"
)

type WalletRepository interface {
	GetWalletByUserID(userID string) (*entity.Wallet, error)
	GetOrCreateWallet(userID, currency string) (*entity.Wallet, error)
	CreditBalance(walletID string, amount int) error
	DebitBalance(walletID string, amount int) error
	CreateTransaction(tx *entity.Transaction) (*entity.Transaction, error)
	GetTransactionByID(transactionID string) (*entity.Transaction, error)
	SettleDeposit(transactionID, gateway, gatewayRefID string) (bool, error)
	ListTransactions(walletID string, limit int) ([]*entity.Transaction, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetWalletByUserID(userID string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := r.db.Where("user_id = ?", userID).First(&walletModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrWalletNotFound
		}
		return nil, err
	}
	return ToWalletEntity(&walletModel), nil
}

func (r *walletRepository) GetOrCreateWallet(userID, currency string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	err := r.db.Where("user_id = ?", userID).First(&walletModel).Error
	if err == nil {
		return ToWalletEntity(&walletModel), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if currency == "" {
		currency = entity.CurrencyIRR
	}
	walletModel = model.WalletModel{
		UserID:   userID,
		Balance:  0,
		Currency: currency,
	}
	if err := r.db.Create(&walletModel).Error; err != nil {
		// A concurrent first-access won the insert race on the user_id
		// uniqueness constraint; return the wallet it created.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.WalletModel
			if err := r.db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
				return nil, err
			}
			return ToWalletEntity(&existing), nil
		}
		return nil, err
	}
	return ToWalletEntity(&walletModel), nil
}

func (r *walletRepository) CreditBalance(walletID string, amount int) error {
	result := r.db.Model(&model.WalletModel{}).
		Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrWalletNotFound
	}
	return nil
}

// DebitBalance decrements the balance only if it would not go negative. The
// check and the decrement are a single conditional UPDATE so two debits
// racing on the same wallet cannot both pass a stale balance check.
func (r *walletRepository) DebitBalance(walletID string, amount int) error {
	result := r.db.Model(&model.WalletModel{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&model.WalletModel{}).Where("id = ?", walletID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entity.ErrWalletNotFound
		}
		return entity.ErrInsufficientBalance
	}
	return nil
}

func (r *walletRepository) CreateTransaction(tx *entity.Transaction) (*entity.Transaction, error) {
	transactionModel := ToTransactionModel(tx)
	if err := r.db.Create(transactionModel).Error; err != nil {
		return nil, err
	}
	return ToTransactionEntity(transactionModel), nil
}

func (r *walletRepository) GetTransactionByID(transactionID string) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	if err := r.db.Where("id = ?", transactionID).First(&transactionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrTransactionNotFound
		}
		return nil, err
	}
	return ToTransactionEntity(&transactionModel), nil
}

// SettleDeposit flips a PENDING deposit to SUCCESS and records the gateway
// fields. The status check is part of the UPDATE's WHERE clause, so of any
// number of concurrent settlement attempts exactly one observes the flip and
// credits the balance. Returns whether this call performed the flip.
func (r *walletRepository) SettleDeposit(transactionID, gateway, gatewayRefID string) (bool, error) {
	result := r.db.Model(&model.TransactionModel{}).
		Where("id = ? AND status = ? AND type = ?",
			transactionID,
			string(entity.TransactionStatusPending),
			string(entity.TransactionTypeDeposit),
		).
		Updates(map[string]interface{}{
			"status":         string(entity.TransactionStatusSuccess),
			"gateway":        gateway,
			"gateway_ref_id": gatewayRefID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *walletRepository) ListTransactions(walletID string, limit int) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	query := r.db.Where("wallet_id = ?", walletID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions, nil
}
