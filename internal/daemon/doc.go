// Package daemon coordinates the long-running curator process.
//
// It wires configuration, the file store, the publish ledger, the hub
// publisher, and the HTTP API into a single lifecycle with flock-based
// locking to prevent multiple instances. Keep orchestration logic here:
// curation semantics live in store, publish, and api while the daemon
// focuses on startup, shutdown, and resource ownership.
package daemon
