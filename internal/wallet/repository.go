package wallet

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/zuri-labs/go-wallet-ledger/pkg/id"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolation is the Postgres error code raised when one of the unique
// indexes (transactions.reference, wallets.wallet_number, wallets.user_id)
// is hit.
const uniqueViolation = "23505"

type TransferParams struct {
	SenderWalletID       uuid.UUID
	SenderUserID         uuid.UUID
	RecipientWalletID    uuid.UUID
	RecipientUserID      uuid.UUID
	Reference            string
	Amount               decimal.Decimal
	SenderDescription    string
	RecipientDescription string
}

type Repository interface {
	CreateWallet(wallet *Wallet) error
	GetWalletByUserID(userID uuid.UUID) (*Wallet, error)
	GetWalletByNumber(number string) (*Wallet, error)
	WalletNumberExists(number string) (bool, error)
	SetWalletPin(walletID uuid.UUID, pinHash string) error

	CreateTransaction(tx *Transaction) error
	GetTransactionByReference(ref string) (*Transaction, error)
	UpdateTransactionStatus(ref string, status TransactionStatus) error
	GetTransactions(userID uuid.UUID, limit, offset int) ([]Transaction, error)
	CountTransactions(userID uuid.UUID) (int64, error)

	Transfer(p TransferParams) (*Transaction, error)
	ConfirmDeposit(reference string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWallet(wallet *Wallet) error {
	err := r.db.Create(wallet).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		// wallets carry two unique indexes; only the wallet_number one
		// means the caller should draw a new number and retry
		if strings.Contains(pgErr.ConstraintName, "user_id") {
			return ErrWalletExists
		}
		return ErrDuplicateReference
	}
	return err
}

func (r *repository) GetWalletByUserID(userID uuid.UUID) (*Wallet, error) {
	var wallet Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) GetWalletByNumber(number string) (*Wallet, error) {
	var wallet Wallet
	if err := r.db.Where("wallet_number = ?", number).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) WalletNumberExists(number string) (bool, error) {
	var count int64
	err := r.db.Model(&Wallet{}).Where("wallet_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *repository) SetWalletPin(walletID uuid.UUID, pinHash string) error {
	return r.db.Model(&Wallet{}).Where("id = ?", walletID).Update("pin_hash", pinHash).Error
}

func (r *repository) CreateTransaction(tx *Transaction) error {
	return translateError(r.db.Create(tx).Error)
}

func (r *repository) GetTransactionByReference(ref string) (*Transaction, error) {
	var tx Transaction
	if err := r.db.Where("reference = ?", ref).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// UpdateTransactionStatus moves a Pending transaction to a terminal status.
// Success and Failed rows are immutable, so the update is a no-op for them.
func (r *repository) UpdateTransactionStatus(ref string, status TransactionStatus) error {
	return r.db.Model(&Transaction{}).
		Where("reference = ? AND status = ?", ref, TransactionPending).
		Update("status", status).Error
}

func (r *repository) GetTransactions(userID uuid.UUID, limit, offset int) ([]Transaction, error) {
	var txs []Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	return txs, err
}

func (r *repository) CountTransactions(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&Transaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Transfer debits the sender, credits the recipient and records the
// Transfer/Received pair as one unit. Both wallet rows are locked in
// primary-key order so concurrent opposite transfers cannot deadlock.
func (r *repository) Transfer(p TransferParams) (*Transaction, error) {
	var senderTx Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		first, second := p.SenderWalletID, p.RecipientWalletID
		if second.String() < first.String() {
			first, second = second, first
		}

		var locked []Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []uuid.UUID{first, second}).
			Order("id").
			Find(&locked).Error; err != nil {
			return err
		}

		var sender *Wallet
		for i := range locked {
			if locked[i].ID == p.SenderWalletID {
				sender = &locked[i]
			}
		}
		if sender == nil {
			return ErrWalletNotFound
		}

		if sender.Balance.LessThan(p.Amount) {
			return ErrInsufficientBalance
		}

		// debit sender; the balance guard backs up the row lock so the
		// non-negative invariant holds even against out-of-band writers
		res := tx.Model(&Wallet{}).
			Where("id = ? AND balance >= ?", p.SenderWalletID, p.Amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", p.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		// credit recipient; zero rows means the wallet vanished between
		// the caller's lookup and the lock, so the whole unit rolls back
		res = tx.Model(&Wallet{}).
			Where("id = ?", p.RecipientWalletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", p.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecipientNotFound
		}

		senderTx = Transaction{
			Reference:         p.Reference,
			UserID:            p.SenderUserID,
			WalletID:          p.SenderWalletID,
			RecipientWalletID: &p.RecipientWalletID,
			Type:              TransactionTransfer,
			Amount:            p.Amount,
			Status:            TransactionSuccess,
			Description:       p.SenderDescription,
		}
		if err := tx.Create(&senderTx).Error; err != nil {
			return translateError(err)
		}

		receivedTx := Transaction{
			Reference:   id.ReceivedReference(p.Reference),
			UserID:      p.RecipientUserID,
			WalletID:    p.RecipientWalletID,
			Type:        TransactionReceived,
			Amount:      p.Amount,
			Status:      TransactionSuccess,
			Description: p.RecipientDescription,
		}
		if err := tx.Create(&receivedTx).Error; err != nil {
			return translateError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &senderTx, nil
}

// ConfirmDeposit credits a wallet from a Pending Deposit transaction and
// marks it Success as one unit. The row lock on the transaction serializes
// concurrent duplicate deliveries: only one observes Pending and credits,
// the rest observe Success and no-op.
func (r *repository) ConfirmDeposit(reference string) (bool, error) {
	applied := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var txn Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ?", reference).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		if txn.Status == TransactionSuccess {
			applied = true
			return nil
		}

		if txn.Type != TransactionDeposit {
			return ErrNotADeposit
		}

		if txn.Status == TransactionFailed {
			return nil
		}

		if err := tx.Model(&Wallet{}).
			Where("id = ?", txn.WalletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", txn.Amount)).Error; err != nil {
			return err
		}

		if err := tx.Model(&Transaction{}).
			Where("id = ?", txn.ID).
			Update("status", TransactionSuccess).Error; err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateReference
	}
	return err
}
