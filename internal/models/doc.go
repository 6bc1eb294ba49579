// Package models defines the domain types of the waslerr storefront client.
//
// The package contains three groups of types:
//
// 1. Session types: the client-held proof of authentication
//   - [User] : profile returned by the auth API (accepts both "id" and "_id")
//   - [Session] : bearer token plus user, persisted as a unit
//
// 2. API payloads exchanged with the remote authentication API
//   - [Credentials] : request body of /login and /register
//   - [AuthResponse] : response of /login and /register
//   - [MeResponse] : response of /me
//
// 3. Catalog types rendered on the landing view
//   - [Album] : a featured album card
//   - [Genre] : a genre tile
//
// [Account] is the persisted record of the local stand-in auth API.
package models
