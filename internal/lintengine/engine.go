// Package lintengine defines the port this daemon invokes to obtain lint
// results, plus a concrete adapter that shells out to an external ruff-like
// binary over the document's in-memory source.
package lintengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/strob0t/ruffls/internal/check"
)

// Engine is the port the scheduler invokes to lint one document. source is
// the document's full in-memory text, never read back from disk, so the
// engine sees edits the editor has not saved.
type Engine interface {
	Lint(ctx context.Context, path, source string) ([]check.Check, error)
}

// CommandEngine runs an external binary (e.g. "ruff") against source passed
// on stdin, parsing its JSON diagnostics output. Grounded in the teacher's
// subprocess-exec style (gitlocal.Provider.runGit): exec.CommandContext,
// separate stdout/stderr buffers, error wrapping with trimmed stderr.
type CommandEngine struct {
	Binary string
	Args   []string
}

// NewCommandEngine builds a CommandEngine invoking binary with args, with
// "--output-format json" (or the caller's equivalent) expected to already be
// present in args.
func NewCommandEngine(binary string, args ...string) *CommandEngine {
	return &CommandEngine{Binary: binary, Args: args}
}

// ruffMessage mirrors ruff's --output-format json record shape.
type ruffMessage struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
	EndLocation struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"end_location"`
	Fix *struct {
		Edits []struct {
			Content  string `json:"content"`
			Location struct {
				Row    int `json:"row"`
				Column int `json:"column"`
			} `json:"location"`
			EndLocation struct {
				Row    int `json:"row"`
				Column int `json:"column"`
			} `json:"end_location"`
		} `json:"edits"`
	} `json:"fix"`
}

// Lint pipes source to the configured binary on stdin and parses its JSON
// findings into Checks. A non-zero exit code is not itself an error: most
// linters exit non-zero exactly when findings exist.
func (e *CommandEngine) Lint(ctx context.Context, path, source string) ([]check.Check, error) {
	args := append(append([]string{}, e.Args...), "-")
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if stdout.Len() == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("lintengine: %s: %w", strings.TrimSpace(stderr.String()), runErr)
		}
		return nil, nil
	}

	var raw []ruffMessage
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("lintengine: parse output for %s: %w", path, err)
	}

	checks := make([]check.Check, 0, len(raw))
	for _, m := range raw {
		c := check.Check{
			RuleCode: m.Code,
			Message:  m.Message,
			Row:      m.Location.Row,
			Column:   m.Location.Column,
			EndRow:   m.EndLocation.Row,
			EndCol:   m.EndLocation.Column,
		}
		if m.Fix != nil && len(m.Fix.Edits) > 0 {
			edit := m.Fix.Edits[0]
			c.Fix = &check.Fix{
				Range: check.Range{
					Start: check.Position{Line: edit.Location.Row - 1, Character: edit.Location.Column},
					End:   check.Position{Line: edit.EndLocation.Row - 1, Character: edit.EndLocation.Column},
				},
				Content: edit.Content,
			}
		}
		checks = append(checks, c)
	}
	return checks, nil
}
