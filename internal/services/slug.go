package services

import (
	"crypto/rand"
	"math/big"
	"strings"

	"keepsake-backend/internal/keepsake"
)

const (
	slugAlphabet  = "abcdefghijkmnpqrstuvwxyz23456789"
	slugSuffixLen = 6
	slugMaxBase   = 40
)

// NewSlug builds "<recipient>-<random>" from the recipient's name, e.g.
// "zoe-obrien-k3m9qa".
func NewSlug(recipient string) string {
	base := strings.ToLower(strings.ReplaceAll(keepsake.SanitizeName(recipient), "_", "-"))
	if len(base) > slugMaxBase {
		base = strings.TrimRight(base[:slugMaxBase], "-")
	}
	return base + "-" + randomSuffix()
}

func randomSuffix() string {
	var b strings.Builder
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := 0; i < slugSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b.WriteByte(slugAlphabet[n.Int64()])
	}
	return b.String()
}
