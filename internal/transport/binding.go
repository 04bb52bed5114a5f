package transport

import (
	"fmt"
	"io"
	"net"
	"sync"
)

// Conn is a duplex byte stream plus its close hook. stdio and socket
// bindings both satisfy it.
type Conn struct {
	io.Reader
	io.Writer
	io.Closer
}

var stdioOnce sync.Once

// ErrStdioAlreadyOpened guards the documented singleton invariant: a
// process may only ever construct one stdio server, since stdin/stdout
// cannot be meaningfully shared between two framed protocols.
var ErrStdioAlreadyOpened = fmt.Errorf("transport: stdio connection already constructed in this process")

// StdioConn binds to the process's stdin/stdout. Calling it a second time in
// the same process returns ErrStdioAlreadyOpened.
func StdioConn(stdin io.Reader, stdout io.Writer) (*Conn, error) {
	var err error
	opened := false
	stdioOnce.Do(func() { opened = true })
	if !opened {
		err = ErrStdioAlreadyOpened
	}
	if err != nil {
		return nil, err
	}
	return &Conn{Reader: stdin, Writer: stdout, Closer: io.NopCloser(nil)}, nil
}

// SocketConn opens an outbound TCP connection to 127.0.0.1:port and speaks
// the same Content-Length framing over it, per the `socket --port N`
// binding: the daemon connects out to an editor-owned listener rather than
// accepting inbound connections itself.
func SocketConn(port int) (*Conn, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	return &Conn{Reader: c, Writer: c, Closer: c}, nil
}
