// Package otp implements the short-lived one-time login code store.
//
// Codes are fixed-length decimal strings keyed by lower-cased email, with an
// absolute expiry. At most one live code exists per email: a new issuance
// overwrites any prior entry, and concurrent issuance for the same email
// resolves last-writer-wins. Expiry is checked lazily by callers via
// Entry.Expired; entries are never proactively swept. Consume deletes an
// entry unconditionally to enforce single use.
//
// Two backends satisfy the Store interface: MemoryStore, a process-local map
// suitable for a single instance, and RedisStore for deployments that need
// codes to survive across instances. Handlers depend only on Store.
package otp
