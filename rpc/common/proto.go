package common

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// --------------------------------------------------------------------------
// Command Type Definition
// --------------------------------------------------------------------------

// CommandType defines the type of command sent in a request datagram.
type CommandType uint8

const (
	CmdTInvalid CommandType = iota // zero value, never sent
	CmdTCreate                     // Insert or overwrite a resource
	CmdTRead                       // Read a resource
	CmdTUpdate                     // Insert or overwrite a resource
	CmdTDelete                     // Remove a key
	CmdTAppend                     // Append items to a list
	CmdTRemove                     // Remove all equal items from a list
)

// String returns the wire representation of a CommandType.
func (t CommandType) String() string {
	switch t {
	case CmdTCreate:
		return "CREATE"
	case CmdTRead:
		return "READ"
	case CmdTUpdate:
		return "UPDATE"
	case CmdTDelete:
		return "DELETE"
	case CmdTAppend:
		return "APPEND"
	case CmdTRemove:
		return "REMOVE"
	default:
		return "INVALID"
	}
}

// ParseCommandType matches a command word case-insensitively.
func ParseCommandType(s string) (CommandType, bool) {
	switch strings.ToUpper(s) {
	case "CREATE":
		return CmdTCreate, true
	case "READ":
		return CmdTRead, true
	case "UPDATE":
		return CmdTUpdate, true
	case "DELETE":
		return CmdTDelete, true
	case "APPEND":
		return CmdTAppend, true
	case "REMOVE":
		return CmdTRemove, true
	default:
		return CmdTInvalid, false
	}
}

// --------------------------------------------------------------------------
// Request Structure
// --------------------------------------------------------------------------

var (
	// ErrInvalidCommand is returned if a request has fewer than two tokens
	ErrInvalidCommand = errors.New(RespInvalidCommand)
	// ErrUnknownCommand is returned if the command word is not known
	ErrUnknownCommand = errors.New(RespUnknownCommand)
)

// Request is a parsed request datagram of the form
//
//	<COMMAND> <KEY> [<PAYLOAD>]
//
// Payload is the verbatim remainder after the second space (it may contain spaces).
type Request struct {
	Cmd     CommandType
	Key     string
	Payload string
}

// String encodes the request in wire format
func (r Request) String() string {
	if r.Payload == "" {
		return fmt.Sprintf("%s %s", r.Cmd, r.Key)
	}
	return fmt.Sprintf("%s %s %s", r.Cmd, r.Key, r.Payload)
}

// DecodeDatagram converts the raw bytes of a datagram into a string.
// Invalid UTF-8 sequences are replaced with U+FFFD instead of being rejected.
// Every maximal invalid subpart gets its own replacement character, so
// "a\xff" and "a\xff\xff" stay distinct keys.
func DecodeDatagram(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidPrefixLen(b):]
			continue
		}
		sb.Write(b[:size])
		b = b[size:]
	}
	return sb.String()
}

// invalidPrefixLen returns the length of the maximal invalid subpart at the
// start of b: a lead byte followed by the continuation bytes that still fit
// a well formed sequence. b must start with an invalid sequence.
func invalidPrefixLen(b []byte) int {
	n, lo, hi := 0, byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		n, lo = 3, 0xA0
	case c == 0xED:
		n, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		n = 3
	case c == 0xF0:
		n, lo = 4, 0x90
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	case c == 0xF4:
		n, hi = 4, 0x8F
	default:
		return 1
	}

	i := 1
	for ; i < n && i < len(b); i++ {
		if c := b[i]; c < lo || c > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return i
}

// ParseRequest parses a decoded request datagram.
// A single trailing line break (\n or \r\n) is ignored so that line based tools
// like `nc -u` can be used. The rest is split on the first two spaces.
// It returns ErrInvalidCommand if there are fewer than two tokens and
// ErrUnknownCommand if the command word is not known.
func ParseRequest(raw string) (Request, error) {
	if strings.HasSuffix(raw, "\r\n") {
		raw = raw[:len(raw)-2]
	} else if strings.HasSuffix(raw, "\n") {
		raw = raw[:len(raw)-1]
	}

	parts := strings.SplitN(raw, " ", 3)
	if len(parts) < 2 {
		return Request{}, ErrInvalidCommand
	}

	cmd, ok := ParseCommandType(parts[0])
	if !ok {
		return Request{}, ErrUnknownCommand
	}

	req := Request{
		Cmd: cmd,
		Key: parts[1],
	}
	if len(parts) == 3 {
		req.Payload = parts[2]
	}
	return req, nil
}

// --------------------------------------------------------------------------
// Request Factory Functions
// --------------------------------------------------------------------------

// NewCreateRequest creates a new Create request
func NewCreateRequest(key string, payload []byte) Request {
	return Request{Cmd: CmdTCreate, Key: key, Payload: string(payload)}
}

// NewReadRequest creates a new Read request
func NewReadRequest(key string) Request {
	return Request{Cmd: CmdTRead, Key: key}
}

// NewUpdateRequest creates a new Update request
func NewUpdateRequest(key string, payload []byte) Request {
	return Request{Cmd: CmdTUpdate, Key: key, Payload: string(payload)}
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) Request {
	return Request{Cmd: CmdTDelete, Key: key}
}

// NewAppendRequest creates a new Append request, payload is a JSON array of items
func NewAppendRequest(key string, payload []byte) Request {
	return Request{Cmd: CmdTAppend, Key: key, Payload: string(payload)}
}

// NewRemoveRequest creates a new Remove request, payload is a single JSON item
func NewRemoveRequest(key string, payload []byte) Request {
	return Request{Cmd: CmdTRemove, Key: key, Payload: string(payload)}
}

// --------------------------------------------------------------------------
// Responses
// --------------------------------------------------------------------------

// Fixed response phrases. A successful READ is answered with the JSON
// encoded resource instead.
const (
	RespCreated            = "Created successfully"
	RespUpdated            = "Updated successfully"
	RespDeleted            = "Deleted successfully"
	RespAppended           = "Appended successfully"
	RespRemoved            = "Removed successfully"
	RespInvalidCommand     = "Invalid command"
	RespUnknownCommand     = "Unknown command"
	RespInvalidDataFormat  = "Invalid data format"
	RespKeyNotFound        = "Key not found"
	RespError              = "Error"
	respErrorDetailsPrefix = RespError + ": "
)

// SuccessResponse returns the phrase for a successful mutating command
func SuccessResponse(cmd CommandType) string {
	switch cmd {
	case CmdTCreate:
		return RespCreated
	case CmdTUpdate:
		return RespUpdated
	case CmdTDelete:
		return RespDeleted
	case CmdTAppend:
		return RespAppended
	case CmdTRemove:
		return RespRemoved
	default:
		return RespError
	}
}

// ErrorResponse renders an error as "Error: <detail>"
func ErrorResponse(err error) string {
	return respErrorDetailsPrefix + err.Error()
}

// ParseErrorResponse returns the detail of an "Error: <detail>" response.
// The boolean is false if resp is not such a response.
func ParseErrorResponse(resp string) (string, bool) {
	if !strings.HasPrefix(resp, respErrorDetailsPrefix) {
		return "", false
	}
	return resp[len(respErrorDetailsPrefix):], true
}
