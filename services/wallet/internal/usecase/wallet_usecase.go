package usecase

import (
	"fmt"

	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/pkg/queue"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/entity"
	"github.com/AmirAliEidivandi/movie/services/wallet/internal/repo/persistent"
)

const DefaultTransactionLimit = 20

type WalletUseCase interface {
	GetOrCreateWallet(userID, currency string) (*entity.Wallet, error)
	GetBalance(userID string) (int, error)
	CreatePendingDeposit(userID string, amount int, description string) (*entity.Transaction, error)
	MarkDepositSuccess(transactionID, gatewayName, gatewayRefID string) (*entity.Transaction, error)
	Withdraw(userID string, amount int, description string) (*entity.Transaction, error)
	PurchaseSubscription(userID string, plan entity.SubscriptionPlan) (*entity.Transaction, error)
	ListTransactions(userID string, limit int) ([]*entity.Transaction, error)
	GetTransactionByID(transactionID string) (*entity.Transaction, error)
}

// EventPublisher is satisfied by the rabbitmq queue client. Publishing is
// best-effort: a broker outage must never fail a settled payment.
type EventPublisher interface {
	PublishPaymentEvent(event queue.PaymentEvent) error
}

type walletUseCase struct {
	walletRepo persistent.WalletRepository
	events     EventPublisher
	logger     *logger.Logger
}

func NewWalletUseCase(walletRepo persistent.WalletRepository, events EventPublisher, log *logger.Logger) WalletUseCase {
	return &walletUseCase{
		walletRepo: walletRepo,
		events:     events,
		logger:     log,
	}
}

// GetOrCreateWallet is idempotent: an existing wallet is returned unchanged
// and the currency argument is ignored for it.
func (uc *walletUseCase) GetOrCreateWallet(userID, currency string) (*entity.Wallet, error) {
	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, currency)
	if err != nil {
		uc.logger.Error("Failed to get or create wallet for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) GetBalance(userID string) (int, error) {
	wallet, err := uc.walletRepo.GetWalletByUserID(userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// CreatePendingDeposit records the deposit intent without touching the
// balance. The transaction stays PENDING until an explicit settlement call;
// there is no timeout-based expiry.
func (uc *walletUseCase) CreatePendingDeposit(userID string, amount int, description string) (*entity.Transaction, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, "")
	if err != nil {
		uc.logger.Error("Failed to get wallet for deposit: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	tx, err := uc.walletRepo.CreateTransaction(&entity.Transaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		Amount:      amount,
		Type:        entity.TransactionTypeDeposit,
		Status:      entity.TransactionStatusPending,
		Description: description,
	})
	if err != nil {
		uc.logger.Error("Failed to create deposit transaction: %v", err)
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}
	return tx, nil
}

// MarkDepositSuccess settles a pending deposit: flips the status, records the
// gateway fields, then credits the wallet. Safe to call more than once for
// the same transaction (gateway double-callback, manual settle racing the
// callback): the status flip is a conditional update and only the call that
// actually flipped it credits the balance.
func (uc *walletUseCase) MarkDepositSuccess(transactionID, gatewayName, gatewayRefID string) (*entity.Transaction, error) {
	tx, err := uc.walletRepo.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Type != entity.TransactionTypeDeposit {
		return nil, entity.ErrNotADeposit
	}
	if tx.Status == entity.TransactionStatusSuccess {
		return tx, nil
	}

	settled, err := uc.walletRepo.SettleDeposit(transactionID, gatewayName, gatewayRefID)
	if err != nil {
		uc.logger.Error("Failed to settle deposit %s: %v", transactionID, err)
		return nil, fmt.Errorf("failed to settle deposit: %w", err)
	}

	if settled {
		if err := uc.walletRepo.CreditBalance(tx.WalletID, tx.Amount); err != nil {
			uc.logger.Error("Deposit %s settled but balance credit failed: %v", transactionID, err)
			return nil, fmt.Errorf("failed to credit balance: %w", err)
		}
		uc.publishEvent(queue.PaymentEvent{
			UserID:        tx.UserID,
			TransactionID: tx.ID,
			Type:          string(entity.TransactionTypeDeposit),
			Amount:        tx.Amount,
			Gateway:       gatewayName,
			GatewayRefID:  gatewayRefID,
		})
	}

	return uc.walletRepo.GetTransactionByID(transactionID)
}

// Withdraw debits the balance with a conditional update before any record is
// written, so a failed withdrawal leaves no transaction behind.
func (uc *walletUseCase) Withdraw(userID string, amount int, description string) (*entity.Transaction, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, "")
	if err != nil {
		uc.logger.Error("Failed to get wallet for withdraw: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if err := uc.walletRepo.DebitBalance(wallet.ID, amount); err != nil {
		return nil, err
	}

	tx, err := uc.walletRepo.CreateTransaction(&entity.Transaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		Amount:      amount,
		Type:        entity.TransactionTypeWithdraw,
		Status:      entity.TransactionStatusSuccess,
		Description: description,
	})
	if err != nil {
		uc.logger.Error("Balance debited but withdraw transaction %d for user %s was not recorded: %v", amount, userID, err)
		return nil, fmt.Errorf("failed to record withdraw: %w", err)
	}

	uc.publishEvent(queue.PaymentEvent{
		UserID:        userID,
		TransactionID: tx.ID,
		Type:          string(entity.TransactionTypeWithdraw),
		Amount:        amount,
	})
	return tx, nil
}

func (uc *walletUseCase) PurchaseSubscription(userID string, plan entity.SubscriptionPlan) (*entity.Transaction, error) {
	price, ok := entity.SubscriptionPrices[plan]
	if !ok {
		return nil, entity.ErrUnknownPlan
	}

	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, "")
	if err != nil {
		uc.logger.Error("Failed to get wallet for purchase: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if err := uc.walletRepo.DebitBalance(wallet.ID, price); err != nil {
		return nil, err
	}

	tx, err := uc.walletRepo.CreateTransaction(&entity.Transaction{
		WalletID:    wallet.ID,
		UserID:      userID,
		Amount:      price,
		Type:        entity.TransactionTypePurchase,
		Status:      entity.TransactionStatusSuccess,
		Description: fmt.Sprintf("Purchase subscription %s", plan),
	})
	if err != nil {
		uc.logger.Error("Balance debited but purchase transaction for user %s was not recorded: %v", userID, err)
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	uc.publishEvent(queue.PaymentEvent{
		UserID:        userID,
		TransactionID: tx.ID,
		Type:          string(entity.TransactionTypePurchase),
		Amount:        price,
	})
	return tx, nil
}

func (uc *walletUseCase) ListTransactions(userID string, limit int) ([]*entity.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}

	wallet, err := uc.walletRepo.GetOrCreateWallet(userID, "")
	if err != nil {
		uc.logger.Error("Failed to get wallet for listing: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	transactions, err := uc.walletRepo.ListTransactions(wallet.ID, limit)
	if err != nil {
		uc.logger.Error("Failed to list transactions: %v", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (uc *walletUseCase) GetTransactionByID(transactionID string) (*entity.Transaction, error) {
	return uc.walletRepo.GetTransactionByID(transactionID)
}

func (uc *walletUseCase) publishEvent(event queue.PaymentEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishPaymentEvent(event); err != nil {
		uc.logger.Error("Failed to publish payment event for tx %s: %v", event.TransactionID, err)
	}
}
