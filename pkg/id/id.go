package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/google/uuid"
)

const walletNumberLength = 13

func Generate() string {
	return uuid.New().String()
}

func IsValidUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// PaymentReference returns a deposit reference with 128 bits of entropy,
// e.g. ref_9f86d081884c7d659a2feaa0c55ad015.
func PaymentReference() string {
	return "ref_" + token(16)
}

// TransferReference returns the sender-side reference of a transfer. The
// recipient-side record derives its reference via ReceivedReference.
func TransferReference() string {
	return "transfer_" + token(16)
}

// ReceivedReference derives the recipient-side reference paired with a
// transfer reference.
func ReceivedReference(transferRef string) string {
	return transferRef + "_received"
}

// WalletNumber returns a 13-digit candidate wallet number. Callers must
// check it against the store and retry on collision before assigning it.
func WalletNumber() string {
	digits := make([]byte, walletNumberLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}

func token(size int) string {
	bytes := make([]byte, size)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
