// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding/decoding, request parsing and middleware.
//
// Response helpers write {"error": "..."} bodies for failures and
// {"message": "..."} for acknowledgements:
//
//	httputil.WriteConflict(w, "Email already exists")
//	httputil.WriteMessage(w, http.StatusCreated, "User created")
//
// Request parsing:
//
//	var req loginRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//
// Middleware, outermost first:
//
//	handler := httputil.Chain(
//		httputil.RecoveryMiddleware(logger),
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.CORSMiddleware([]string{"*"}),
//		httputil.MaxBytesMiddleware(1<<20),
//	)(router)
package httputil
