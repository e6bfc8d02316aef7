package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// HandlePrefix is the fixed prefix of every public account handle.
const HandlePrefix = "BRX"

// handleDigits is the number of random digits following the prefix.
const handleDigits = 8

// GenerateHandle returns a new public handle of the form BRX12345678,
// drawn from crypto/rand. Uniqueness is enforced by the account store.
func GenerateHandle() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < handleDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate handle: %w", err)
	}
	return fmt.Sprintf("%s%0*d", HandlePrefix, handleDigits, n), nil
}
