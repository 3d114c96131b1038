// Package server implements the uKV RPC server: a UDP request loop in front
// of a single shared store.IStore.
//
// The package focuses on:
//   - Mapping text commands onto store operations (the adapter)
//   - Serving one request per datagram with bounded memory and clean shutdown
//   - Optional per sender rate limiting and Prometheus metrics
//
// Key Components:
//
//   - IRPCServerAdapter: Interface for the request dispatcher. The adapter
//     created by NewIStoreServerAdapter parses a request, calls the store and
//     renders the result into one of the fixed response phrases:
//
//     CREATE <key> <resource>  -> "Created successfully"
//     READ <key>               -> <resource> | "Key not found"
//     UPDATE <key> <resource>  -> "Updated successfully"
//     DELETE <key>             -> "Deleted successfully"
//     APPEND <key> [<item>..]  -> "Appended successfully"
//     REMOVE <key> <item>      -> "Removed successfully"
//
//     Failures are answered with "Invalid command", "Unknown command",
//     "Invalid data format", "Error" or "Error: <detail>".
//
//   - IRPCServer: Created by NewRPCServer, which binds the socket right away.
//     Serve runs the receive loop:
//
//     1. read one datagram into a reusable buffer (BufferSize)
//     2. decode it leniently (invalid UTF-8 becomes U+FFFD)
//     3. drop it if the sender exceeded its rate limit
//     4. handle it in its own goroutine with its own cancellable context
//     5. enqueue the reply in the bounded response queue (QueueSize)
//
//     Exactly one sender goroutine drains the queue and writes to the socket.
//
// Lifecycle:
//
//	A server moves from created to running (Serve) to stopped and can not be
//	restarted. Shutdown cancels the server context, which unblocks the
//	receive loop and cancels every in-flight request. A cancelled request
//	never enqueues its reply, but a store mutation that already happened is
//	kept. ServeFor shuts the server down after a fixed duration.
//
// Usage Example:
//
//	s, err := jstore.NewJSONStore[resource.Human](jstore.DefaultOptions())
//	if err != nil {
//	  return err
//	}
//
//	srv, err := server.NewRPCServer[resource.Human](
//	  common.DefaultServerConfig(),
//	  udp.NewUDPServerTransport(),
//	  s,
//	  server.NewIStoreServerAdapter[resource.Human](serializer.NewJSONSerializer()),
//	)
//	if err != nil {
//	  return err
//	}
//
//	go func() {
//	  <-ctx.Done()
//	  srv.Shutdown()
//	}()
//	return srv.Serve()
//
// Thread Safety:
//
//	Shutdown and Addr are safe for concurrent use. The store is the only
//	state shared between requests and must be safe for concurrent use.
package server
