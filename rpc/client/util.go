package client

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// validateKey checks that a key can be encoded in a request datagram
func validateKey(key string) error {
	if key == "" {
		return store.NewError(store.RetCInternalError, "key must not be empty")
	}
	if strings.ContainsAny(key, " \r\n") {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("key %q must not contain spaces or line breaks", key))
	}
	return nil
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a request and a transport layer as parameters
// It returns the text of the reply and an error if the request could not be sent
func invokeRPCRequest(req common.Request, transport transport.IRPCClientTransport) (string, error) {
	if err := validateKey(req.Key); err != nil {
		return "", err
	}

	// Send the request
	respBytes, err := transport.Send([]byte(req.String()))
	if err != nil {
		return "", store.NewError(store.RetCInternalError, fmt.Sprintf("%s %s: %v", req.Cmd, req.Key, err))
	}
	return string(respBytes), nil
}

// checkResponse compares a reply with the expected success phrase and
// converts every other reply into a *store.Error
func checkResponse(req common.Request, resp string) error {
	if resp == common.SuccessResponse(req.Cmd) {
		return nil
	}
	return responseError(req, resp)
}

// responseError converts a failure reply into a *store.Error.
// "Error: <label>: <msg>" replies are mapped back to the code of the label.
func responseError(req common.Request, resp string) error {
	if detail, ok := common.ParseErrorResponse(resp); ok {
		code, ok := store.ParseRetCode(detail)
		if !ok {
			return store.NewError(store.RetCInternalError, detail)
		}
		msg := strings.TrimPrefix(detail[len(code.String()):], ": ")
		return store.NewError(code, msg)
	}

	switch resp {
	case common.RespInvalidDataFormat:
		return store.NewError(store.RetCSerializationFailure, fmt.Sprintf("server rejected payload of %s %s", req.Cmd, req.Key))
	case common.RespKeyNotFound:
		return store.NewError(store.RetCKeyNotFound, req.Key)
	case common.RespError, common.RespInvalidCommand, common.RespUnknownCommand:
		return store.NewError(store.RetCInternalError, fmt.Sprintf("%s %s: %s", req.Cmd, req.Key, resp))
	default:
		return store.NewError(store.RetCInternalError, fmt.Sprintf("unexpected reply to %s %s: %q", req.Cmd, req.Key, resp))
	}
}
