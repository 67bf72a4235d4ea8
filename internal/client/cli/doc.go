// Package cli provides the VisionAQ command-line client.
//
// It wires configuration, local storage, the remote API clients, the
// session manager and the router into an App, and exposes it through a
// cobra command tree. Without a subcommand an interactive REPL starts:
// the stored session is verified in the background, a connectivity watcher
// pings the analysis service and every route change is rendered with
// lipgloss.
//
// One-shot subcommands (whoami, analyze, logout, history export, version)
// reuse the same App for a single operation.
package cli
