// Package handler implements the concrete LSP method handlers: the
// lifecycle notifications (initialize/initialized/didOpen/didChange/
// didClose), textDocument/codeAction, and the server-initiated
// publishDiagnostics task, wired together by NewRegistry into a
// dispatch.Registry the scheduler dispatches against.
package handler

import (
	"strings"

	"github.com/strob0t/ruffls/internal/check"
	"github.com/strob0t/ruffls/internal/state"
)

// InitializeParams is the subset of LSP InitializeParams this daemon reads.
type InitializeParams struct {
	RootURI      *string        `json:"rootUri"`
	RootPath     *string        `json:"rootPath"`
	Capabilities map[string]any `json:"capabilities"`
}

// InitializeResult carries the fixed capability set back to the client.
type InitializeResult struct {
	Capabilities state.ServerCapabilities `json:"capabilities"`
}

// ProjectRoot extracts a filesystem-ish root from whichever of rootUri /
// rootPath the client sent, preferring rootUri per the LSP's own
// deprecation of rootPath.
func (p InitializeParams) ProjectRoot() *string {
	if p.RootURI != nil {
		root := uriToPath(*p.RootURI)
		return &root
	}
	if p.RootPath != nil {
		return p.RootPath
	}
	return nil
}

// TextDocumentItem is the LSP TextDocumentItem shape carried by didOpen.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

// DidOpenParams mirrors LSP DidOpenTextDocumentParams.
type DidOpenParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// VersionedTextDocumentIdentifier mirrors the LSP shape of the same name.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// ContentChange is one element of DidChangeParams.ContentChanges. Range is a
// pointer because a nil Range marks a full-document replacement, which this
// daemon does not support (ErrUnexpectedNone).
type ContentChange struct {
	Range *check.Range `json:"range"`
	Text  string       `json:"text"`
}

// DidChangeParams mirrors LSP DidChangeTextDocumentParams.
type DidChangeParams struct {
	TextDocument   VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []ContentChange                 `json:"contentChanges"`
}

// TextDocumentIdentifier mirrors the LSP shape of the same name.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// DidCloseParams mirrors LSP DidCloseTextDocumentParams.
type DidCloseParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// CodeActionParams mirrors the LSP shape of the same name; this daemon only
// reads the range, not Context.Diagnostics or Context.Only.
type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        check.Range            `json:"range"`
}

// PublishDiagnosticsParams mirrors LSP PublishDiagnosticsParams.
type PublishDiagnosticsParams struct {
	URI         string             `json:"uri"`
	Diagnostics []check.Diagnostic `json:"diagnostics"`
}

// CancelParams mirrors LSP CancelParams ($/cancelRequest).
type CancelParams struct {
	ID any `json:"id"`
}

// uriToPath strips a "file://" scheme prefix, leaving other schemes (or
// schemeless strings, used freely in tests) untouched.
func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
