// Package client implements the RPC client for the uKV store.
// It provides an implementation of the store.IStore interface that forwards
// every operation as one text command to a remote ukv server.
//
// The package focuses on:
//   - Transparent remote access through the same interface as the local store
//   - Integration with the transport and serialization layers
//   - Converting the textual replies back into typed *store.Error values
//
// Key Components:
//
//   - NewRPCStore: Factory function that creates a client implementing the
//     store.IStore interface for a payload type T.
//
// Error mapping:
//
//	"Error: Key not found: k"          -> store.ErrKeyNotFound
//	"Error: Invalid resource type: k"  -> store.ErrInvalidResourceType
//	"Error: IO error: ..."             -> store.ErrIoFailure
//	"Invalid data format"              -> store.ErrSerializationFailure
//	anything else                      -> RetCInternalError
//
// A READ answered with "Key not found" returns loaded == false without error.
// Keys must not be empty and must not contain spaces or line breaks, since the
// wire format separates tokens by single spaces. GetInfo is not supported.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoints:              []string{"127.0.0.1:8080"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	}
//
//	s, err := client.NewRPCStore[resource.Human](config, udp.NewUDPClientTransport(), serializer.NewJSONSerializer())
//	if err != nil {
//	  return err
//	}
//
//	_ = s.Create("alice", resource.NewSingle(resource.Human{Name: "Alice"}))
//	res, found, _ := s.Read("alice")
//
// Delivery:
//
//	Requests that time out are retried (RetryCount). Since UDP gives no
//	delivery guarantee a retried mutation may be applied twice. For the
//	upsert style commands this is harmless, a retried APPEND can add its
//	items twice.
//
// Thread Safety:
//
//	The client is thread-safe and can be used concurrently from multiple
//	goroutines. Concurrency is limited by ConnectionsPerEndpoint.
package client
