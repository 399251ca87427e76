// Package cli provides the interactive MindBalance command-line client.
//
// It wires configuration, the local store, API services and an interactive
// REPL that keeps working offline. Typical flow: restore the last session
// (or prompt for credentials), start the connectivity monitor and the
// history feed, then execute user commands. New moods are cached at once
// and pushed to the server when it is reachable; pending ones are swept on
// reconnect.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the per-command handlers for details.
package cli
