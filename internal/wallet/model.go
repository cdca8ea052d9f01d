package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	WalletNumber string          `gorm:"uniqueIndex;not null" json:"wallet_number"`
	Balance      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"balance"`
	Currency     string          `gorm:"not null;default:NGN" json:"currency"`
	PinHash      string          `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	TransactionDeposit  TransactionType = "DEPOSIT"
	TransactionTransfer TransactionType = "TRANSFER"
	TransactionReceived TransactionType = "RECEIVED"
)

type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

type Transaction struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	Reference         string            `gorm:"uniqueIndex;not null" json:"reference"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null" json:"user_id"`
	WalletID          uuid.UUID         `gorm:"type:uuid;not null" json:"wallet_id"`
	RecipientWalletID *uuid.UUID        `gorm:"type:uuid" json:"recipient_wallet_id,omitempty"`
	Type              TransactionType   `gorm:"not null" json:"type"`
	Amount            decimal.Decimal   `gorm:"type:numeric(15,2);not null" json:"amount"`
	Status            TransactionStatus `gorm:"not null;default:PENDING" json:"status"`
	AuthorizationURL  string            `json:"authorization_url,omitempty"`
	Description       string            `json:"description"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// MinorToMajor converts an amount in kobo to its Naira decimal value.
func MinorToMajor(amountMinor int64) decimal.Decimal {
	return decimal.NewFromInt(amountMinor).Shift(-2)
}
