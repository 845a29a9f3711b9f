package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	// CodeLength is the number of decimal digits in a login code
	CodeLength = 6
	// DefaultTTL is the absolute lifetime of an issued code
	DefaultTTL = 10 * time.Minute
)

// ErrNoCode indicates no code is stored for the given email
var ErrNoCode = errors.New("no code issued")

// Entry is a stored one-time code with its absolute expiry
type Entry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's expiry has elapsed at the given time.
// Callers treat an expired entry as absent and are responsible for deleting it.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store issues, looks up and consumes one-time login codes
type Store interface {
	// Issue generates a fresh code for the email, overwriting any prior entry,
	// and returns it for delivery through an external channel.
	Issue(ctx context.Context, email string) (string, error)
	// Lookup returns the stored entry, expired or not, or ErrNoCode.
	Lookup(ctx context.Context, email string) (*Entry, error)
	// Consume deletes the entry unconditionally. Deleting an absent entry is
	// not an error.
	Consume(ctx context.Context, email string) error
}

var codeMax = big.NewInt(1_000_000)

// generateCode produces a random fixed-length decimal code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// NormalizeEmail lower-cases and trims an email for use as a store key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
