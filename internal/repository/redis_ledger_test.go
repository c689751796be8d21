package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// hashTag returns the part of key Redis Cluster hashes to pick a slot.
func hashTag(key string) string {
	start := strings.IndexByte(key, '{')
	if start < 0 {
		return key
	}

	end := strings.IndexByte(key[start+1:], '}')
	if end <= 0 {
		return key
	}

	return key[start+1 : start+1+end]
}

func TestRedisLedgerKeysShareOneSlot(t *testing.T) {
	keys := []string{
		ledgerHoldsKey,
		ledgerExpiryKey,
		showtimeLedgerKey(1),
		showtimeLedgerKey(42),
		showtimeLedgerKey(90210),
	}

	for _, key := range keys {
		assert.Equal(t, "ledger", hashTag(key), key)
	}
}
