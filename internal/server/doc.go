// Package server is a local stand-in for the remote authentication API.
//
// It serves the same contract as the hosted backend so the client can be
// exercised offline:
//
//	POST /api/auth/register  → 201 {success, message, token, user} | 400 {success:false, message}
//	POST /api/auth/login     → 200 {success, message, token, user} | 400/401 {success:false, message}
//	GET  /api/auth/me        → 200 {success, data} | 401/404 {success:false, message}
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first).
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [AuthHandler] is the only one.
//
// # Accounts and Tokens
//
// Accounts live in the users table. Passwords are bcrypt hashes. Tokens are
// HS256 JWTs issued by [TokenIssuer] whose subject is the account ID.
package server
