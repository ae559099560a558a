package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// codeAlphabet excludes visually ambiguous characters (no 0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a verification code.
const CodeLength = 6

// TTL is how long an issued code remains valid.
const TTL = 10 * time.Minute

// Generate produces a random single-use verification code using a
// cryptographically secure source.
func Generate() (string, error) {
	var b strings.Builder
	b.Grow(CodeLength)

	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}

	return b.String(), nil
}

// Matches compares a submitted code against the stored one. Comparison is
// case-insensitive; stored codes are already uppercase.
func Matches(stored, submitted string) bool {
	return stored != "" && stored == strings.ToUpper(strings.TrimSpace(submitted))
}
