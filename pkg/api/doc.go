// Package api exposes botdock over HTTP.
//
// Routes:
//
//	POST   /auth/register    public
//	POST   /auth/login       public
//	POST   /auth/logout      bearer
//	GET    /auth/me          bearer
//	GET    /auth/activity    bearer
//	GET    /bots             bearer, caller's bots
//	POST   /bots             bearer
//	GET    /bots/{id}        public projection {id, name, created_at}
//	DELETE /bots/{id}        bearer, owner only
//	POST   /chat/{botId}     public
//	GET    /widget.js        public loader script
//	GET    /health
//
// Errors are always {"error": "..."}. A bot owned by someone else and a
// missing bot produce the same 404.
package api
