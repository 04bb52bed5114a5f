// Package jsonrpc implements the JSON-RPC 2.0 message envelope used by the
// LSP transport: strict version checking, numeric-or-string request ids, and
// the error-code taxonomy defined by the LSP and JSON-RPC specifications.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the only accepted value of the "jsonrpc" field.
const Version = "2.0"

// ID is a request identifier: either a JSON number or a JSON string, per the
// JSON-RPC 2.0 spec. The zero value represents "no id" (a notification).
type ID struct {
	str    string
	num    int64
	isStr  bool
	isNum  bool
	isNull bool
}

// NewStringID builds a string-valued ID.
func NewStringID(s string) ID { return ID{str: s, isStr: true} }

// NewNumberID builds a numeric-valued ID.
func NewNumberID(n int64) ID { return ID{num: n, isNum: true} }

// NullID is the id used on frame-level errors that cannot be attributed to a request.
var NullID = ID{isNull: true}

// IsNull reports whether this ID carries no value.
func (id ID) IsNull() bool { return id.isNull || (!id.isStr && !id.isNum) }

// String renders the ID for logging and for use as a map key.
func (id ID) String() string {
	switch {
	case id.isStr:
		return id.str
	case id.isNum:
		return fmt.Sprintf("%d", id.num)
	default:
		return "<null>"
	}
}

// MarshalJSON encodes the ID as a bare number, bare string, or JSON null.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.isStr:
		return json.Marshal(id.str)
	case id.isNum:
		return json.Marshal(id.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a bare number, bare string, or JSON null into the ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{isNull: true}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID{num: n, isNum: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("jsonrpc: id must be a number, string, or null: %w", err)
	}
	*id = ID{str: s, isStr: true}
	return nil
}

// Error is the {code, message, data?} object carried by error responses.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Envelope is the wire shape shared by every inbound and outbound message.
// At most one of Params/Result/Error is populated, and the combination
// determines whether it is a request, a notification, or a response.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *ID             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Kind classifies a decoded Envelope.
type Kind int

const (
	// KindInvalid marks an envelope that failed validation.
	KindInvalid Kind = iota
	KindRequest
	KindNotification
	KindResponseResult
	KindResponseError
)

// Classify determines the Kind of a parsed Envelope. Validation beyond the
// jsonrpc version (method presence for requests, exactly one of
// result/error for responses) is checked here so callers get one place to
// consult.
func (e *Envelope) Classify() Kind {
	if e.JSONRPC != Version {
		return KindInvalid
	}
	switch {
	case e.Error != nil && e.Result != nil:
		return KindInvalid
	case e.Error != nil:
		return KindResponseError
	case e.Result != nil:
		return KindResponseResult
	case e.Method != "" && e.ID != nil:
		return KindRequest
	case e.Method != "":
		return KindNotification
	default:
		return KindInvalid
	}
}

// NewRequest builds a request Envelope.
func NewRequest(id ID, method string, params any) (*Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Envelope{JSONRPC: Version, ID: &id, Method: method, Params: raw}, nil
}

// NewNotification builds a notification Envelope (no id).
func NewNotification(method string, params any) (*Envelope, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Envelope{JSONRPC: Version, Method: method, Params: raw}, nil
}

// NewResult builds a successful response Envelope.
func NewResult(id ID, result any) (*Envelope, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc: marshal result: %w", err)
	}
	return &Envelope{JSONRPC: Version, ID: &id, Result: raw}, nil
}

// NewError builds an error response Envelope addressed to id (use NullID for
// frame-level failures with no attributable request).
func NewError(id ID, code int, message string, data any) *Envelope {
	return &Envelope{JSONRPC: Version, ID: &id, Error: &Error{Code: code, Message: message, Data: data}}
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc: marshal params: %w", err)
	}
	return raw, nil
}
