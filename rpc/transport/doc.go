// Package transport defines the network layer between uKV clients and the
// server.
//
// Every request is exactly one datagram and every reply is exactly one
// datagram, there is no framing, no request id and no connection state.
//
// Key Components:
//
//   - IRPCServerTransport: binds the server socket. The RPC server drives the
//     returned net.PacketConn itself (receive loop, response sender, shutdown).
//
//   - IRPCClientTransport: sends one request and waits for one reply, with
//     timeouts and retries.
//
// Implementations:
//
//   - udp: UDP sockets, available in "github.com/ValentinKolb/uKV/rpc/transport/udp".
package transport
