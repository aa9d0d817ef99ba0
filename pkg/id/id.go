package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// New returns a random RFC 4122 v4 identifier, used for goals and subscriptions.
func New() string { return uuid.NewString() }

// NewHex32 returns exactly 32 lowercase hex characters (no separators/prefixes).
func NewHex32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
