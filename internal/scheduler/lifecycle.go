package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/strob0t/ruffls/internal/handler"
	"github.com/strob0t/ruffls/internal/jsonrpc"
	"github.com/strob0t/ruffls/internal/state"
	"github.com/strob0t/ruffls/internal/transport"
)

// handshake reads frames until a valid `initialize` request arrives,
// replying to everything else (parse failures, non-2.0 envelopes,
// pre-init traffic) with a synchronous error response and continuing to
// read. It returns the freshly built ServerState on success, or an error
// only when the connection itself fails.
func (s *Scheduler) handshake(ctx context.Context, reader *transport.Reader, writer *transport.Writer) (*state.ServerState, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := reader.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("scheduler: connection closed before initialize")
			}
			var invalid *transport.ErrInvalidFrame
			var encoding *transport.ErrUnknownEncoding
			if errors.As(err, &invalid) || errors.As(err, &encoding) {
				s.writeSync(writer, jsonrpc.NewError(jsonrpc.NullID, jsonrpc.CodeInternalError, err.Error(), nil))
				continue
			}
			return nil, fmt.Errorf("scheduler: read frame: %w", err)
		}

		var env jsonrpc.Envelope
		if unmarshalErr := json.Unmarshal(body, &env); unmarshalErr != nil {
			s.writeSync(writer, jsonrpc.NewError(jsonrpc.NullID, jsonrpc.CodeParseError, unmarshalErr.Error(), nil))
			continue
		}

		if env.JSONRPC != jsonrpc.Version {
			s.writeSync(writer, jsonrpc.NewError(idOf(&env), jsonrpc.CodeInvalidRequest, "jsonrpc version must be \"2.0\"", nil))
			continue
		}

		if env.Method != "initialize" {
			s.writeSync(writer, jsonrpc.NewError(idOf(&env), jsonrpc.CodeServerNotInitialized, "server not initialized: send initialize first", nil))
			continue
		}

		if len(env.Params) == 0 || string(env.Params) == "null" {
			s.writeSync(writer, jsonrpc.NewError(idOf(&env), jsonrpc.CodeServerNotInitialized, "server not initialized: initialize requires InitializeParams", nil))
			continue
		}

		st, result, err := handler.HandleInitialize(env.Params, s.lintArgs)
		if err != nil {
			s.writeSync(writer, jsonrpc.NewError(idOf(&env), jsonrpc.CodeInvalidParams, err.Error(), nil))
			continue
		}

		resultEnv, err := jsonrpc.NewResult(idOf(&env), result)
		if err != nil {
			return nil, fmt.Errorf("scheduler: marshal InitializeResult: %w", err)
		}
		s.writeSync(writer, resultEnv)
		return st, nil
	}
}

// writeSync frames and writes env directly, used only during the
// single-goroutine handshake phase before the writer loop exists. Write
// failures are logged; the handshake loop continues trying to read, since a
// broken outbound half will surface as a read error soon enough.
func (s *Scheduler) writeSync(writer *transport.Writer, env *jsonrpc.Envelope) {
	raw, err := json.Marshal(env)
	if err != nil {
		s.log.Error("scheduler: marshal handshake response: {Error}", err)
		return
	}
	if err := writer.WriteFrame(raw); err != nil {
		s.log.Error("scheduler: write handshake response: {Error}", err)
	}
}
