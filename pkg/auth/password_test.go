package auth

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashFormat(t *testing.T) {
	stored, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		t.Fatalf("stored form should have exactly one separator, got %q", stored)
	}
	if len(parts[0]) != SaltLength*2 {
		t.Errorf("salt length = %d, want %d", len(parts[0]), SaltLength*2)
	}
	if len(parts[1]) != DerivedKeyLength*2 {
		t.Errorf("digest length = %d, want %d", len(parts[1]), DerivedKeyLength*2)
	}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	passwords := []string{"pw123456", "", "correct horse battery staple", "ünïcødé-🔑", strings.Repeat("x", 512)}

	for _, p := range passwords {
		stored, err := HashPassword(p)
		if err != nil {
			t.Fatalf("HashPassword(%q) error = %v", p, err)
		}
		if !VerifyPassword(p, stored) {
			t.Errorf("VerifyPassword(%q) = false, want true", p)
		}
	}
}

func TestPasswordHasher_WrongPassword(t *testing.T) {
	stored, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	for _, candidate := range []string{"pw123457", "PW123456", "pw12345", "pw123456 ", ""} {
		if VerifyPassword(candidate, stored) {
			t.Errorf("VerifyPassword(%q) = true, want false", candidate)
		}
	}
}

func TestPasswordHasher_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if first == second {
		t.Fatal("hashing the same password twice should produce different stored forms")
	}
	if strings.Split(first, ":")[0] == strings.Split(second, ":")[0] {
		t.Error("salts should differ between calls")
	}
	if !VerifyPassword("same", first) || !VerifyPassword("same", second) {
		t.Error("both stored forms should verify")
	}
}

func TestPasswordHasher_MalformedStoredForm(t *testing.T) {
	valid, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	salt := strings.Split(valid, ":")[0]

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "abcdef"},
		{"only separator", ":"},
		{"empty salt", ":" + strings.Repeat("ab", DerivedKeyLength)},
		{"empty digest", salt + ":"},
		{"extra separator", valid + ":00"},
		{"non-hex digest", salt + ":" + strings.Repeat("zz", DerivedKeyLength)},
		{"non-hex salt", "not-hex:" + strings.Repeat("ab", DerivedKeyLength)},
		{"short digest", salt + ":abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword("pw", tt.stored) {
				t.Errorf("VerifyPassword() = true for %q", tt.stored)
			}
		})
	}
}

func TestPasswordHasher_RandomFailure(t *testing.T) {
	h := &PasswordHasher{random: failingReader{}}

	if _, err := h.Hash("pw"); err == nil {
		t.Error("Hash() should fail when the random source fails")
	}
}
