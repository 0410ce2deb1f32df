// Package ledger persists the record of encode attempts known to inflate
// file size, keyed by content hash and encoding parameters.
//
// The ledger is append-only: entries are recorded once and never updated
// or deleted by the orchestrator. Clearing it is an operator action
// exposed only through the CLI. Concurrent reenc processes share the
// store safely through SQLite's WAL journaling and busy timeout; no extra
// coordination layer exists.
package ledger
