package auth

import "time"

// Role is stored with each user. Only DefaultRole is assigned today.
type Role string

const (
	// DefaultRole is assigned at registration
	DefaultRole Role = "user"
)

// User represents a registered operator
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session binds an opaque bearer token to a user
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the authenticated caller resolved from a session token
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
