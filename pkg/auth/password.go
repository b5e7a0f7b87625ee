package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	// SaltLength is the number of random bytes in a password salt
	SaltLength = 16
	// DerivedKeyLength is the scrypt output length in bytes
	DerivedKeyLength = 64

	scryptN = 16384
	scryptR = 8
	scryptP = 1

	hashSeparator = ":"
)

// PasswordHasher turns plaintext passwords into "<hex-salt>:<hex-digest>" values
// and verifies candidates against them.
type PasswordHasher struct {
	random io.Reader
}

// NewPasswordHasher creates a hasher backed by crypto/rand
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{random: rand.Reader}
}

// Hash derives a storable hash for password using a fresh salt
func (h *PasswordHasher) Hash(password string) (string, error) {
	saltBytes := make([]byte, SaltLength)
	if _, err := io.ReadFull(h.random, saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(saltBytes)

	digest, err := derive(password, salt)
	if err != nil {
		return "", err
	}

	return salt + hashSeparator + hex.EncodeToString(digest), nil
}

// Verify reports whether password matches stored. Malformed stored values never match.
func (h *PasswordHasher) Verify(password, stored string) bool {
	salt, digestHex, ok := splitStored(stored)
	if !ok {
		return false
	}

	expected, err := hex.DecodeString(digestHex)
	if err != nil || len(expected) != DerivedKeyLength {
		return false
	}

	actual, err := derive(password, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// HashPassword hashes password with the default hasher
func HashPassword(password string) (string, error) {
	return NewPasswordHasher().Hash(password)
}

// VerifyPassword checks password against stored with the default hasher
func VerifyPassword(password, stored string) bool {
	return NewPasswordHasher().Verify(password, stored)
}

// derive runs scrypt over password with the hex-encoded salt
func derive(password, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, DerivedKeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func splitStored(stored string) (salt, digest string, ok bool) {
	parts := strings.Split(stored, hashSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	salt, digest = parts[0], parts[1]
	if salt == "" || digest == "" {
		return "", "", false
	}
	if _, err := hex.DecodeString(salt); err != nil {
		return "", "", false
	}
	return salt, digest, true
}
