// Package main hosts the curator CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces stats, per-stage listings, review
// actions, hub pushes, publish history, and configuration scaffolding. It
// operates directly on the same file store the daemon serves; curation is
// human-paced, so no cross-process coordination is required.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
