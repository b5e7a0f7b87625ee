// Package middleware provides the bearer-token authentication middleware.
//
//	authMW := middleware.NewAuthMiddleware(auth.NewAuthenticator(store), recorder, logger)
//	protected := router.NewRoute().Subrouter()
//	protected.Use(authMW.Handler)
//
// Missing, malformed, unknown and revoked tokens all get the same 401
// response; a session store failure is a 500.
package middleware
