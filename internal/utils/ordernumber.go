package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber produces a human-readable order number of the form
// AGR-<6 digits>-<3 digits>. The first block is derived from the current
// time, the second is cryptographically random; callers that need
// uniqueness must still check against the store.
func GenerateOrderNumber() string {
	now := time.Now().UTC()

	timePart := now.UnixMilli() % 1000000

	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 1000)
	}

	return fmt.Sprintf("AGR-%06d-%03d", timePart, n.Int64())
}
