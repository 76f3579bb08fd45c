package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// referencePrefix is the short property code carried by every booking
// reference, e.g. "PGH-2026-AB4D93KF".
const referencePrefix = "PGH"

// randomCode returns n characters from A-Z0-9 using crypto/rand with
// rand.Int to avoid modulo bias.
func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateBookingReference builds the human-readable booking reference that
// also serves as the payment idempotency key.
func GenerateBookingReference() (string, error) {
	suffix, err := randomCode(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s", referencePrefix, time.Now().UTC().Year(), suffix), nil
}
