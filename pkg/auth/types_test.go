package auth

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCanMutate(t *testing.T) {
	tests := []struct {
		name     string
		identity *Identity
		ownerID  string
		want     bool
	}{
		{"owner", &Identity{ID: "u1"}, "u1", true},
		{"different user", &Identity{ID: "u2"}, "u1", false},
		{"nil identity", nil, "u1", false},
		{"empty identity id", &Identity{}, "", false},
		{"empty owner", &Identity{ID: "u1"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutate(tt.identity, tt.ownerID); got != tt.want {
				t.Errorf("CanMutate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := &User{ID: "u1", Email: "a@x.com", PasswordHash: "salt:digest", Role: DefaultRole}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "salt:digest") {
		t.Errorf("password hash leaked in JSON: %s", data)
	}
}

func TestSession_JSONHidesToken(t *testing.T) {
	s := &Session{Token: "secret-token", UserID: "u1"}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "secret-token") {
		t.Errorf("token leaked in JSON: %s", data)
	}
}
