package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zuri-labs/go-wallet-ledger/pkg/id"
	"github.com/zuri-labs/go-wallet-ledger/pkg/logger"
)

// Gateway is the payment collaborator the engine consumes. Amounts cross
// this boundary in kobo, matching the Paystack API.
type Gateway interface {
	InitiatePayment(ctx context.Context, amountMinor int64, email, reference string) (authorizationURL string, err error)
	VerifyPayment(ctx context.Context, reference string) (status string, err error)
}

// Config carries the engine's tunables. Amounts are in kobo.
type Config struct {
	MinDepositAmount  int64
	MinTransferAmount int64
}

type Service interface {
	CreateWallet(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	SetPin(ctx context.Context, userID uuid.UUID, pinHash string) error

	InitiateDeposit(ctx context.Context, userID uuid.UUID, email string, amountMinor int64) (*Transaction, error)
	Transfer(ctx context.Context, senderUserID uuid.UUID, recipientWalletNumber string, amountMinor int64) (*Transaction, error)
	ConfirmDeposit(ctx context.Context, reference string) (bool, error)
	MarkDepositFailed(ctx context.Context, reference string) error
	RefreshStatus(ctx context.Context, userID uuid.UUID, reference string) (*Transaction, string, error)

	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, int64, error)
	TransactionByReference(ctx context.Context, userID uuid.UUID, reference string) (*Transaction, error)
}

type service struct {
	repo    Repository
	gateway Gateway
	config  Config
}

func NewService(repo Repository, gateway Gateway, cfg Config) Service {
	if cfg.MinDepositAmount == 0 {
		cfg.MinDepositAmount = 100
	}
	if cfg.MinTransferAmount == 0 {
		cfg.MinTransferAmount = 100
	}
	return &service{repo: repo, gateway: gateway, config: cfg}
}

// CreateWallet provisions a wallet at user onboarding. Each user owns
// exactly one wallet, so calling it again returns the existing one.
// Wallet numbers are random and generation retries until an unused one
// is found.
func (s *service) CreateWallet(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	existing, err := s.repo.GetWalletByUserID(userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	for {
		number := id.WalletNumber()

		exists, err := s.repo.WalletNumberExists(number)
		if err != nil {
			return nil, fmt.Errorf("failed to check wallet number: %w", err)
		}
		if exists {
			continue
		}

		wallet := &Wallet{
			UserID:       userID,
			WalletNumber: number,
			Balance:      decimal.Zero,
			Currency:     "NGN",
		}
		err = s.repo.CreateWallet(wallet)
		if errors.Is(err, ErrWalletExists) {
			// lost a provisioning race, the concurrent writer's wallet wins
			return s.repo.GetWalletByUserID(userID)
		}
		if errors.Is(err, ErrDuplicateReference) {
			// lost a race for the number, draw another
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create wallet: %w", err)
		}
		return wallet, nil
	}
}

func (s *service) GetWallet(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	return s.repo.GetWalletByUserID(userID)
}

func (s *service) SetPin(ctx context.Context, userID uuid.UUID, pinHash string) error {
	wallet, err := s.repo.GetWalletByUserID(userID)
	if err != nil {
		return err
	}
	return s.repo.SetWalletPin(wallet.ID, pinHash)
}

// InitiateDeposit creates a Pending Deposit transaction carrying the
// Paystack authorization URL. The wallet is credited only when the
// confirmation event arrives, never here.
func (s *service) InitiateDeposit(ctx context.Context, userID uuid.UUID, email string, amountMinor int64) (*Transaction, error) {
	if amountMinor < s.config.MinDepositAmount {
		return nil, fmt.Errorf("%w: minimum deposit is %d kobo", ErrInvalidAmount, s.config.MinDepositAmount)
	}

	wallet, err := s.repo.GetWalletByUserID(userID)
	if err != nil {
		return nil, err
	}

	reference := id.PaymentReference()

	authorizationURL, err := s.gateway.InitiatePayment(ctx, amountMinor, email, reference)
	if err != nil {
		return nil, fmt.Errorf("payment initiation failed: %w", err)
	}

	amount := MinorToMajor(amountMinor)
	tx := &Transaction{
		Reference:        reference,
		UserID:           userID,
		WalletID:         wallet.ID,
		Type:             TransactionDeposit,
		Amount:           amount,
		Status:           TransactionPending,
		AuthorizationURL: authorizationURL,
		Description:      fmt.Sprintf("Deposit of NGN %s", amount.StringFixed(2)),
	}

	if err := s.repo.CreateTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Transfer moves funds between two wallets as a single atomic unit and
// returns the sender-side transaction. The paired Received transaction uses
// the derived <reference>_received reference.
func (s *service) Transfer(ctx context.Context, senderUserID uuid.UUID, recipientWalletNumber string, amountMinor int64) (*Transaction, error) {
	if amountMinor <= 0 || amountMinor < s.config.MinTransferAmount {
		return nil, fmt.Errorf("%w: minimum transfer is %d kobo", ErrInvalidAmount, s.config.MinTransferAmount)
	}
	amount := MinorToMajor(amountMinor)

	sender, err := s.repo.GetWalletByUserID(senderUserID)
	if err != nil {
		return nil, err
	}

	if sender.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	recipient, err := s.repo.GetWalletByNumber(recipientWalletNumber)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	if recipient.UserID == senderUserID {
		return nil, ErrSelfTransfer
	}

	return s.repo.Transfer(TransferParams{
		SenderWalletID:       sender.ID,
		SenderUserID:         senderUserID,
		RecipientWalletID:    recipient.ID,
		RecipientUserID:      recipient.UserID,
		Reference:            id.TransferReference(),
		Amount:               amount,
		SenderDescription:    fmt.Sprintf("Transfer to %s", recipient.WalletNumber),
		RecipientDescription: fmt.Sprintf("Received from %s", sender.WalletNumber),
	})
}

// ConfirmDeposit applies a verified payment event. It is safe to call any
// number of times with the same reference: the first Pending observation
// credits the wallet, every later call no-ops. Unknown references are not
// an error, they simply report applied=false.
func (s *service) ConfirmDeposit(ctx context.Context, reference string) (bool, error) {
	applied, err := s.repo.ConfirmDeposit(reference)
	if errors.Is(err, ErrTransactionNotFound) {
		logger.Warn("ConfirmDeposit: unknown reference", logger.Fields{"reference": reference})
		return false, nil
	}
	if errors.Is(err, ErrNotADeposit) {
		logger.Warn("ConfirmDeposit: reference is not a deposit", logger.Fields{"reference": reference})
		return false, nil
	}
	return applied, err
}

// MarkDepositFailed records a failed charge. Terminal transactions are left
// untouched.
func (s *service) MarkDepositFailed(ctx context.Context, reference string) error {
	tx, err := s.repo.GetTransactionByReference(reference)
	if errors.Is(err, ErrTransactionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if tx.Type != TransactionDeposit || tx.Status != TransactionPending {
		return nil
	}
	return s.repo.UpdateTransactionStatus(reference, TransactionFailed)
}

// RefreshStatus reports a deposit's status, consulting Paystack for Pending
// transactions. It records a Success/Failed verdict on the transaction but
// never credits the wallet; only ConfirmDeposit moves money. A failed
// verification leaves the last known status intact.
func (s *service) RefreshStatus(ctx context.Context, userID uuid.UUID, reference string) (*Transaction, string, error) {
	tx, err := s.repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, "", err
	}
	if tx.UserID != userID {
		return nil, "", ErrTransactionNotFound
	}

	if tx.Status != TransactionPending {
		return tx, "not_checked", nil
	}

	gatewayStatus, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		logger.Warn("RefreshStatus: verification failed", logger.Fields{"reference": reference, "error": err.Error()})
		return tx, "unknown", nil
	}

	switch gatewayStatus {
	case "success":
		if err := s.repo.UpdateTransactionStatus(reference, TransactionSuccess); err != nil {
			return tx, gatewayStatus, nil
		}
		tx.Status = TransactionSuccess
	case "failed":
		if err := s.repo.UpdateTransactionStatus(reference, TransactionFailed); err != nil {
			return tx, gatewayStatus, nil
		}
		tx.Status = TransactionFailed
	}

	return tx, gatewayStatus, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.repo.GetWalletByUserID(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, int64, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.repo.GetTransactions(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountTransactions(userID)
	if err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

// TransactionByReference looks up a single transaction scoped to its owner.
// Foreign references are indistinguishable from missing ones.
func (s *service) TransactionByReference(ctx context.Context, userID uuid.UUID, reference string) (*Transaction, error) {
	tx, err := s.repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}
