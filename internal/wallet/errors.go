package wallet

import "errors"

// Business-rule errors returned by the service. Handlers map these to HTTP
// responses; anything else is treated as an infrastructure failure.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrRecipientNotFound   = errors.New("recipient wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrSelfTransfer        = errors.New("cannot transfer to your own wallet")
	ErrWalletExists        = errors.New("user already has a wallet")
	ErrDuplicateReference  = errors.New("duplicate transaction reference")
	ErrNotADeposit         = errors.New("transaction is not a deposit")
)
