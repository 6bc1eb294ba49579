// Package session holds the persisted sign-in state of the storefront client.
//
// A [Store] keeps the bearer token and the serialized user under two keys
// ([KeyToken] and [KeyUser]) that are always written and cleared together.
// Every write and clear is published to subscribers; [SQLiteStore.Watch]
// additionally publishes changes made by other processes sharing the same
// database file, so that all running clients converge on the same session.
//
// The [Controller] derives the authenticated/unauthenticated view shown by
// the navigation bar from a Store and provides logout.
package session
