// Package common provides core data structures and utilities shared by the
// uKV server and client. It defines the text protocol, configuration
// structures and the logging setup used by the other packages.
//
// The package focuses on:
//   - The request grammar and reply phrases of the datagram protocol
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with the Dragonboat logger facade
//
// Key Components:
//
//   - Request: A parsed datagram of the form "<COMMAND> <key> [<payload>]".
//     ParseRequest splits the text into at most three parts, so the payload may
//     contain spaces. A single trailing line break is ignored. Factory methods
//     build requests on the client side.
//
//   - CommandType: Enumeration of the supported commands (CREATE, READ, UPDATE,
//     DELETE, APPEND, REMOVE). Command names are matched case insensitively.
//
//   - Replies: The success phrases ("Created successfully", ...) and failure
//     phrases ("Invalid command", "Key not found", "Error: <detail>", ...) that
//     make up the reply of every request.
//
//   - ServerConfig: Configuration of a server node: bind address, snapshot
//     file, buffer and queue sizes, rate limiting, metrics and logging.
//
//   - ClientConfig: Configuration for client components, controlling endpoints,
//     timeouts, retries and the number of sockets per endpoint.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger facade, writes a consistent line format and can additionally
//     write to a size rotated log file.
package common
