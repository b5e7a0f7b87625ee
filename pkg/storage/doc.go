// Package storage defines the persistence contracts for users, sessions and bots.
//
// # Overview
//
// The service layer depends only on the interfaces declared here. The SQL
// implementation lives in pkg/storage/sqlstore and runs on PostgreSQL or SQLite;
// schema is versioned with goose migrations in pkg/storage/migrations.
//
// # Interfaces
//
//   - UserStore: CreateUser, GetUserByEmail
//   - SessionStore: CreateSession, GetIdentity, DeleteSession
//   - BotStore: CreateBot, ListBotsByOwner, GetPublicBot, GetBot, DeleteBotOwnedBy
//   - HealthChecker: HealthCheck
//
// Store composes all four.
//
// # Errors
//
// ErrNotFound is returned for single-row lookups that miss, except
// SessionStore.GetIdentity which returns a nil identity so pkg/auth can stay
// free of storage imports. ErrDuplicate is returned when an insert collides
// with a unique constraint (email, primary key). Everything else is a wrapped
// driver error and should be treated as a store failure.
//
// # Ownership
//
// ListBotsByOwner and DeleteBotOwnedBy put the owner id in the WHERE clause.
// A delete that matches zero rows is indistinguishable from a missing bot.
//
//	n, err := store.DeleteBotOwnedBy(ctx, botID, identity.ID)
//	if err == nil && n == 0 {
//		// not found (or not yours)
//	}
package storage
