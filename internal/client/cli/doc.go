// Package cli provides the interactive pmconsole client.
//
// It wires configuration, the local session store, the REST client and the
// users/projects services into a REPL. On start the persisted session is
// checked, a background watcher tracks server reachability, and the operator
// navigates between the dashboard views with commands.
//
// The REPL is started via App.Run(ctx), which blocks until the operator
// exits. See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
