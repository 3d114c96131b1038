// Package cmd implements the command-line interface for the uKV key-value
// store. It provides a hierarchical command structure with operations for
// running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Command for starting and configuring the ukv server
//   - kv: Commands for store operations (create, read, update, delete, append, remove, raw, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set as environment variable UKV_<FLAG> (dashes
// become underscores, e.g. UKV_DATA_FILE), and from a .env or .env.local file
// in the working directory.
//
// See ukv --help for a list of all commands.
package cmd
