package server

import (
	"github.com/ValentinKolb/uKV/lib/store"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter[T comparable] interface {
	// Handle handles a request and returns a response
	// It takes the decoded request datagram and a store as parameters.
	// It returns the text of the response datagram.
	// Errors are never returned, they are rendered into the response text.
	Handle(req string, store store.IStore[T]) (resp string)
}
