// Package repositories implements SQLite persistence for the storefront client.
//
// Key Implementations:
//   - [StorageRepository] : string key/value storage backing the persisted session (the "local storage" of the client)
//   - [AccountRepository] : user accounts of the local stand-in auth API with email-based lookups
//
// Both repositories work on a [shared.DBTX] so callers can compose them inside [shared.WithTx].
// Every storage write bumps a version counter that other processes poll to detect changes.
package repositories
