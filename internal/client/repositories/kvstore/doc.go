// Package kvstore is the client's durable key-value port.
//
// The session token, the cached user profile, the result history and the
// current-result slot all live under fixed keys (see internal/common).
// Values are opaque bytes; callers serialise them as JSON.
//
// Implementations:
//
//   - SQLiteRepository: default, table kv_store in the local database
//   - MemoryStore:      process-local map, used by tests and --storage memory
//   - ValkeyStore:      shared Valkey/Redis instance under a key prefix
//
// Typical Usage
//
//	store := kvstore.NewSQLiteRepository(db)
//	_ = store.SetMany(ctx, map[string][]byte{"a": a, "b": b})
//	v, _ := store.Get(ctx, "a")
package kvstore
