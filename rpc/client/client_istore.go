package client

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/transport"
)

// NewRPCStore creates a new RPC store
// The function takes a config, a transport and a serializer as parameters
// It returns a store.IStore and an error
func NewRPCStore[T comparable](
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IStore[T], error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC store
	s := rpcStore[T]{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC store
	return &s, nil
}

type rpcStore[T comparable] struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore[T]) Create(key string, res resource.Resource[T]) error {
	payload, err := i.encode(res)
	if err != nil {
		return err
	}
	return i.mutate(common.NewCreateRequest(key, payload))
}

func (i *rpcStore[T]) Read(key string) (resource.Resource[T], bool, error) {
	var res resource.Resource[T]

	req := common.NewReadRequest(key)
	resp, err := invokeRPCRequest(req, i.transport)
	if err != nil {
		return res, false, err
	}

	if resp == common.RespKeyNotFound {
		return res, false, nil
	}
	// every successful reply is a json object, every failure a fixed phrase
	if !strings.HasPrefix(resp, "{") {
		return res, false, responseError(req, resp)
	}

	if err := i.serializer.Deserialize([]byte(resp), &res); err != nil {
		return res, false, store.NewError(store.RetCSerializationFailure, fmt.Sprintf("invalid reply for %s: %v", key, err))
	}
	return res, true, nil
}

func (i *rpcStore[T]) Update(key string, res resource.Resource[T]) error {
	payload, err := i.encode(res)
	if err != nil {
		return err
	}
	return i.mutate(common.NewUpdateRequest(key, payload))
}

func (i *rpcStore[T]) Delete(key string) error {
	return i.mutate(common.NewDeleteRequest(key))
}

func (i *rpcStore[T]) AppendToList(key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := i.encode(items)
	if err != nil {
		return err
	}
	return i.mutate(common.NewAppendRequest(key, payload))
}

func (i *rpcStore[T]) RemoveFromList(key string, item T) error {
	payload, err := i.encode(item)
	if err != nil {
		return err
	}
	return i.mutate(common.NewRemoveRequest(key, payload))
}

// GetInfo is not implemented for rpc
func (i *rpcStore[T]) GetInfo() (store.Info, error) {
	return store.Info{}, fmt.Errorf("the GetInfo() method is not implemented in the rpc client adapter")
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// encode serializes a request payload
func (i *rpcStore[T]) encode(v any) ([]byte, error) {
	payload, err := i.serializer.Serialize(v)
	if err != nil {
		return nil, store.NewError(store.RetCSerializationFailure, err.Error())
	}
	return payload, nil
}

// mutate sends a mutating request and checks for the success phrase
func (i *rpcStore[T]) mutate(req common.Request) error {
	resp, err := invokeRPCRequest(req, i.transport)
	if err != nil {
		return err
	}
	return checkResponse(req, resp)
}
