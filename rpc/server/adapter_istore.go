package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/VictoriaMetrics/metrics"
)

// NewIStoreServerAdapter creates the adapter that maps text commands onto
// store.IStore calls. Payloads are decoded and READ replies are encoded with
// the given serializer.
func NewIStoreServerAdapter[T comparable](serializer serializer.IRPCSerializer) IRPCServerAdapter[T] {
	return &iStoreServerAdapterImpl[T]{serializer: serializer}
}

type iStoreServerAdapterImpl[T comparable] struct {
	serializer serializer.IRPCSerializer
}

func (adapter *iStoreServerAdapterImpl[T]) Handle(raw string, s store.IStore[T]) string {
	// Check for nil store
	if s == nil {
		return common.ErrorResponse(errors.New("store is nil"))
	}

	req, err := common.ParseRequest(raw)
	if err != nil {
		countRequest("invalid")
		// ErrInvalidCommand and ErrUnknownCommand carry the response phrase
		return err.Error()
	}
	countRequest(req.Cmd.String())

	// Handle different command types
	switch req.Cmd {
	case common.CmdTCreate, common.CmdTUpdate:
		var res resource.Resource[T]
		if err := adapter.serializer.Deserialize([]byte(req.Payload), &res); err != nil {
			return common.RespInvalidDataFormat
		}
		if req.Cmd == common.CmdTCreate {
			err = s.Create(req.Key, res)
		} else {
			err = s.Update(req.Key, res)
		}
		return mutationResponse(req.Cmd, err)

	case common.CmdTRead:
		res, loaded, err := s.Read(req.Key)
		if err != nil {
			return common.RespError
		}
		if !loaded {
			return common.RespKeyNotFound
		}
		data, err := adapter.serializer.Serialize(res)
		if err != nil {
			return common.RespError
		}
		return string(data)

	case common.CmdTDelete:
		return mutationResponse(req.Cmd, s.Delete(req.Key))

	case common.CmdTAppend:
		var items []T
		if err := adapter.serializer.Deserialize([]byte(req.Payload), &items); err != nil || items == nil {
			return common.RespInvalidDataFormat
		}
		return mutationResponse(req.Cmd, s.AppendToList(req.Key, items))

	case common.CmdTRemove:
		var item T
		if isNull(req.Payload) {
			return common.RespInvalidDataFormat
		}
		if err := adapter.serializer.Deserialize([]byte(req.Payload), &item); err != nil {
			return common.RespInvalidDataFormat
		}
		return mutationResponse(req.Cmd, s.RemoveFromList(req.Key, item))

	default:
		return common.ErrorResponse(fmt.Errorf("unsupported command type: %s", req.Cmd))
	}
}

// mutationResponse renders the result of a mutating store call
func mutationResponse(cmd common.CommandType, err error) string {
	if err != nil {
		return common.ErrorResponse(err)
	}
	return common.SuccessResponse(cmd)
}

// isNull reports whether a payload is the JSON literal null, which decodes
// into the zero value without an error
func isNull(payload string) bool {
	return strings.TrimSpace(payload) == "null"
}

// countRequest increments the request counter for a command
func countRequest(cmd string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`ukv_requests_total{command=%q}`, cmd)).Inc()
}
