// Package auth provides credential hashing, session token generation, bearer
// authentication and the ownership check used by botdock.
//
// # Overview
//
// Operators register with an email and password, log in to obtain an opaque
// session token, and present it as "Authorization: Bearer <token>". Every
// request re-validates the token against the session store, so deleting the
// session row (logout) revokes it on the very next request.
//
// # Key Components
//
// Passwords: salted scrypt, stored as "<hex-salt>:<hex-digest>"
//
//	stored, err := auth.HashPassword("pw123456")
//	ok := auth.VerifyPassword("pw123456", stored) // constant-time compare
//
// Tokens: 32 bytes from crypto/rand, hex encoded. Also used for user and bot ids.
//
//	tg := auth.NewTokenGenerator()
//	token, err := tg.GenerateToken()
//
// Authentication:
//
//	a := auth.NewAuthenticator(sessionStore)
//	identity, err := a.Authenticate(ctx, r.Header.Get("Authorization"))
//	var authErr *auth.AuthError
//	if errors.As(err, &authErr) && authErr.IsStoreFailure() {
//		// 500, not 401
//	}
//
// Ownership:
//
//	if !auth.CanMutate(identity, bot.OwnerID) {
//		// respond exactly as if the bot did not exist
//	}
//
// # Related Packages
//
//   - pkg/middleware: HTTP wrapper around Authenticator
//   - pkg/storage: session, user and bot persistence
//   - pkg/service: registration, login, logout and bot lifecycle
package auth
