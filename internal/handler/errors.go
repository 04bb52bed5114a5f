package handler

import "fmt"

// ErrEditUnopenedDocument is returned when textDocument/didChange names a URI
// with no corresponding open_buffers entry.
type ErrEditUnopenedDocument struct{ URI string }

func (e *ErrEditUnopenedDocument) Error() string {
	return fmt.Sprintf("handler: edit on unopened document %q", e.URI)
}

// ErrUnexpectedNone is returned when a didChange content change carries no
// range: full-document replacement changes are out of scope for this
// daemon, which only supports incremental sync.
var ErrUnexpectedNone = fmt.Errorf("handler: content change missing range (full-document sync not supported)")

// ErrURIToPath describes a document URI that cannot be converted to a
// filesystem path the lint engine can report against. No code path in this
// module returns it.
type ErrURIToPath struct{ URI string }

func (e *ErrURIToPath) Error() string {
	return fmt.Sprintf("handler: cannot resolve path from uri %q", e.URI)
}
