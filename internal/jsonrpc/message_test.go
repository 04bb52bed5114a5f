package jsonrpc

import (
	"encoding/json"
	"testing"
)

func TestIDRoundTripString(t *testing.T) {
	id := NewStringID("abc")
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"abc"` {
		t.Fatalf("got %s", data)
	}
	var got ID
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != id {
		t.Fatalf("round trip mismatch: %+v != %+v", got, id)
	}
}

func TestIDRoundTripNumber(t *testing.T) {
	id := NewNumberID(42)
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `42` {
		t.Fatalf("got %s", data)
	}
	var got ID
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != id {
		t.Fatalf("round trip mismatch: %+v != %+v", got, id)
	}
}

func TestIDNull(t *testing.T) {
	if !NullID.IsNull() {
		t.Fatal("NullID.IsNull() should be true")
	}
	var id ID
	if !id.IsNull() {
		t.Fatal("zero ID should be null")
	}
}

func TestClassifyRequest(t *testing.T) {
	env := &Envelope{JSONRPC: Version, ID: ptrID(NewNumberID(1)), Method: "initialize", Params: json.RawMessage(`{}`)}
	if env.Classify() != KindRequest {
		t.Fatalf("expected KindRequest, got %v", env.Classify())
	}
}

func TestClassifyNotification(t *testing.T) {
	env := &Envelope{JSONRPC: Version, Method: "initialized"}
	if env.Classify() != KindNotification {
		t.Fatalf("expected KindNotification, got %v", env.Classify())
	}
}

func TestClassifyBadVersion(t *testing.T) {
	env := &Envelope{JSONRPC: "1.0", Method: "initialize", ID: ptrID(NewNumberID(1))}
	if env.Classify() != KindInvalid {
		t.Fatalf("expected KindInvalid, got %v", env.Classify())
	}
}

func TestClassifyResponseResultVsError(t *testing.T) {
	ok := &Envelope{JSONRPC: Version, ID: ptrID(NewNumberID(1)), Result: json.RawMessage(`{}`)}
	if ok.Classify() != KindResponseResult {
		t.Fatalf("expected KindResponseResult, got %v", ok.Classify())
	}
	bad := &Envelope{JSONRPC: Version, ID: ptrID(NewNumberID(1)), Error: &Error{Code: CodeInternalError, Message: "boom"}}
	if bad.Classify() != KindResponseError {
		t.Fatalf("expected KindResponseError, got %v", bad.Classify())
	}
}

func TestNewErrorAddressesNullID(t *testing.T) {
	env := NewError(NullID, CodeParseError, "parse error", nil)
	if !env.ID.IsNull() {
		t.Fatal("expected null id")
	}
	if env.Error.Code != CodeParseError {
		t.Fatalf("got code %d", env.Error.Code)
	}
}

func ptrID(id ID) *ID { return &id }
