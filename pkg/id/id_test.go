package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentReferenceFormat(t *testing.T) {
	ref := PaymentReference()
	assert.True(t, strings.HasPrefix(ref, "ref_"))
	assert.Len(t, ref, len("ref_")+32)
}

func TestTransferReferencePairing(t *testing.T) {
	ref := TransferReference()
	assert.True(t, strings.HasPrefix(ref, "transfer_"))
	assert.Equal(t, ref+"_received", ReceivedReference(ref))
}

func TestReferenceUniqueness(t *testing.T) {
	const n = 100000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		ref := PaymentReference()
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference after %d generations: %s", i, ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestWalletNumber(t *testing.T) {
	for i := 0; i < 1000; i++ {
		number := WalletNumber()
		assert.Len(t, number, 13)
		for _, c := range number {
			assert.True(t, c >= '0' && c <= '9', "wallet number must be numeric, got %q", number)
		}
	}
}
