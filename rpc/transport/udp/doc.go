// Package udp implements the uKV transports on top of UDP sockets.
//
// Server side, NewUDPServerTransport binds one unconnected socket on the
// configured endpoint and applies the configured kernel buffer sizes.
//
// Client side, NewUDPClientTransport keeps a pool of connected sockets
// (ConnectionsPerEndpoint per endpoint) and selects one per request via round
// robin. Each socket carries at most one outstanding request:
//
//  1. write the request datagram
//  2. wait for one reply datagram until the timeout (TimeoutSecond)
//  3. on failure replace the socket, back off and retry (RetryCount)
//
// Replacing the socket after a failed exchange guarantees that a reply which
// arrives late is dropped by the kernel instead of being read as the reply to
// a later request.
//
// Note that UDP gives no delivery guarantee. A retried mutating request may be
// applied twice by the server (at least once effect).
package udp
