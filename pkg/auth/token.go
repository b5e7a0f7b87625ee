package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// TokenLength is the number of random bytes in a token (32 bytes = 256 bits)
	TokenLength = 32
)

// TokenGenerator produces opaque random identifiers for session tokens and
// primary keys. It must only ever be backed by a cryptographically secure source.
type TokenGenerator struct {
	random io.Reader
}

// NewTokenGenerator creates a new token generator backed by crypto/rand
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{random: rand.Reader}
}

// GenerateToken creates a new session token
// Format: hex(32 random bytes), 64 characters
func (tg *TokenGenerator) GenerateToken() (string, error) {
	randomBytes := make([]byte, TokenLength)
	if _, err := io.ReadFull(tg.random, randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(randomBytes), nil
}

// NewID creates a new primary key for users and bots
func (tg *TokenGenerator) NewID() (string, error) {
	return tg.GenerateToken()
}
