// Package client implements the application runtime.
//
// It wires configuration, the local store, the remote and object-storage
// adapters, the business services and the background workers into a single
// process lifecycle consumed by the CLI commands.
package client
