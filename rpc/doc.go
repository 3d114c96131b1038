// Package rpc provides the network layer of the uKV resource store. It
// exposes a store.IStore over a line oriented text protocol carried in UDP
// datagrams and offers a client that implements store.IStore on top of it.
//
// The package is organized into several subpackages:
//
//   - common: The wire protocol (commands, request parsing, reply phrases),
//     configuration structures and the logging setup.
//
//   - transport: Network abstractions for the server socket and the client
//     connection pool, implemented for UDP.
//
//   - serializer: JSON encoding of resources and list items used in request
//     payloads and READ replies.
//
//   - client: An RPC client implementing store.IStore, allowing applications
//     to interact with a remote ukv server transparently.
//
//   - server: The datagram server and the adapter that turns a request text
//     into store calls and a reply text.
package rpc
