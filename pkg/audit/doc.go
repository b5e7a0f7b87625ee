// Package audit records security-relevant events: registration, logins and
// failed logins, logouts, rejected tokens, bot creation and deletion, and
// denied access.
//
// # Sinks
//
//   - DBLogger: rows in the audit_events table
//   - LogrusLogger: structured log lines tagged audit=true
//   - MultiLogger: synchronous fan-out to several sinks
//   - NoOpLogger: discards everything
//
// All sinks write on the caller's goroutine. Request handling never spawns
// background work for auditing.
//
// # Usage
//
//	rec := audit.NewRecorder(audit.NewMultiLogger(dbLogger, audit.NewLogrusLogger(log)), log)
//	rec.Success(ctx, audit.EventTypeDataBotCreate, audit.ResourceTypeBot, bot.ID, "bot created")
//
// Recorder is best-effort: a sink failure is logged as a warning and the
// request proceeds.
//
// Events never contain passwords, password hashes or session tokens.
package audit
