package common

import (
	"errors"
	"testing"
)

func TestParseRequest(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected Request
		err      error
	}{
		{"create", `CREATE alice {"Single":{"name":"Alice"}}`, Request{CmdTCreate, "alice", `{"Single":{"name":"Alice"}}`}, nil},
		{"payload with spaces", `UPDATE team {"List": [{"name": "Bob Smith"}]}`, Request{CmdTUpdate, "team", `{"List": [{"name": "Bob Smith"}]}`}, nil},
		{"read", "READ alice", Request{CmdTRead, "alice", ""}, nil},
		{"lowercase command", "read alice", Request{CmdTRead, "alice", ""}, nil},
		{"mixed case command", "DeLeTe alice", Request{CmdTDelete, "alice", ""}, nil},
		{"key is case sensitive", "READ Alice", Request{CmdTRead, "Alice", ""}, nil},
		{"append", `APPEND team [{"name":"Carol"}]`, Request{CmdTAppend, "team", `[{"name":"Carol"}]`}, nil},
		{"remove", `REMOVE team {"name":"Carol"}`, Request{CmdTRemove, "team", `{"name":"Carol"}`}, nil},
		{"trailing newline", "READ alice\n", Request{CmdTRead, "alice", ""}, nil},
		{"trailing crlf", "READ alice\r\n", Request{CmdTRead, "alice", ""}, nil},
		{"only one newline stripped", "READ alice\n\n", Request{CmdTRead, "alice\n", ""}, nil},
		{"empty key", "READ ", Request{CmdTRead, "", ""}, nil},
		{"double space", "READ  alice", Request{CmdTRead, "", "alice"}, nil},
		{"empty", "", Request{}, ErrInvalidCommand},
		{"single token", "READ", Request{}, ErrInvalidCommand},
		{"single token with newline", "READ\n", Request{}, ErrInvalidCommand},
		{"unknown command", "FOO bar", Request{}, ErrUnknownCommand},
		{"unknown command with payload", "GET alice {}", Request{}, ErrUnknownCommand},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest(tc.raw)
			if !errors.Is(err, tc.err) {
				t.Fatalf("Expected error %v, got %v", tc.err, err)
			}
			if req != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, req)
			}
		})
	}
}

func TestRequestString(t *testing.T) {
	requests := []Request{
		NewCreateRequest("alice", []byte(`{"Single":{"name":"Alice"}}`)),
		NewReadRequest("alice"),
		NewUpdateRequest("team", []byte(`{"List":[]}`)),
		NewDeleteRequest("team"),
		NewAppendRequest("team", []byte(`[{"name":"A B"}]`)),
		NewRemoveRequest("team", []byte(`{"name":"A B"}`)),
	}

	for _, req := range requests {
		parsed, err := ParseRequest(req.String())
		if err != nil {
			t.Errorf("Failed to parse %q: %v", req.String(), err)
			continue
		}
		if parsed != req {
			t.Errorf("Expected %+v after re-parsing, got %+v", req, parsed)
		}
	}
}

func TestDecodeDatagram(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"ascii", []byte("READ alice"), "READ alice"},
		{"utf8", []byte("READ ünï"), "READ ünï"},
		{"invalid byte", []byte("READ a\xffb"), "READ a�b"},
		{"truncated sequence", []byte("READ \xc3"), "READ �"},
		{"two invalid bytes", []byte("READ a\xff\xff"), "READ a��"},
		{"truncated three byte sequence", []byte("READ \xe2\x82x"), "READ �x"},
		{"truncated four byte sequence", []byte("\xf0\x9f\x98"), "�"},
		{"surrogate", []byte("\xed\xa0\x80"), "���"},
		{"overlong", []byte("\xc0\xaf"), "��"},
		{"lone continuation bytes", []byte("\x80\x80"), "��"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeDatagram(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDecodeDatagramKeepsKeysDistinct(t *testing.T) {
	one := DecodeDatagram([]byte("a\xff"))
	two := DecodeDatagram([]byte("a\xff\xff"))
	if one == two {
		t.Errorf("Expected distinct invalid keys to stay distinct, both decoded to %q", one)
	}
}

func TestCommandType(t *testing.T) {
	for c := CmdTCreate; c <= CmdTRemove; c++ {
		parsed, ok := ParseCommandType(c.String())
		if !ok || parsed != c {
			t.Errorf("Expected %s to parse back, got %s (ok=%t)", c, parsed, ok)
		}
	}
	if _, ok := ParseCommandType("INVALID"); ok {
		t.Errorf("Expected INVALID not to be a command")
	}
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(errors.New("Key not found: team"))
	if resp != "Error: Key not found: team" {
		t.Errorf("Unexpected error response %q", resp)
	}

	detail, ok := ParseErrorResponse(resp)
	if !ok || detail != "Key not found: team" {
		t.Errorf("Expected detail to be recovered, got %q (ok=%t)", detail, ok)
	}

	for _, resp := range []string{RespError, RespKeyNotFound, RespCreated, `{"Single":{"name":"Error: x"}}`} {
		if _, ok := ParseErrorResponse(resp); ok {
			t.Errorf("Expected %q not to be a detailed error response", resp)
		}
	}
}

func TestSuccessResponse(t *testing.T) {
	expected := map[CommandType]string{
		CmdTCreate: "Created successfully",
		CmdTUpdate: "Updated successfully",
		CmdTDelete: "Deleted successfully",
		CmdTAppend: "Appended successfully",
		CmdTRemove: "Removed successfully",
	}
	for cmd, phrase := range expected {
		if got := SuccessResponse(cmd); got != phrase {
			t.Errorf("Expected %q for %s, got %q", phrase, cmd, got)
		}
	}
}
