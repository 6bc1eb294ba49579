// Package services talks to the remote authentication API.
//
// [APIService] is the raw JSON-over-HTTP layer: it throttles outgoing
// requests with a token bucket, applies a per-request timeout and returns
// the status, headers and body of every response.
//
// [AuthService] builds the three auth endpoints on top of it:
//
//	POST {base}/login     {name, email, password} → {success, message, token, user}
//	POST {base}/register  {name, email, password} → {success, message, token, user}
//	GET  {base}/me        Authorization: Bearer {token} → {data: {_id, name, email, role}}
//
// The bearer header of /me is attached by an [oauth2.StaticTokenSource]
// transport rather than by hand.
//
// # Error Handling
//
// Every failure is a [*TransportError], which matches [shared.ErrAPIRequest]
// with [errors.Is]. A non-2xx status and a 2xx body whose success flag is not
// true are treated alike; the decoded body, when there is one, is returned
// alongside the error so callers can show the server's message.
package services
