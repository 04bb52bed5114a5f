// Package buffer composes a rope of code units with an order-statistic tree
// of per-line lengths to support editor-style (row, column) addressed edits
// in O(log n), translating between that coordinate space and the rope's
// absolute index space.
package buffer

import (
	"fmt"

	"github.com/strob0t/ruffls/internal/ost"
	"github.com/strob0t/ruffls/internal/rope"
)

// ErrKind enumerates the ways a coordinate can be invalid.
type ErrKind int

const (
	RowOutOfBounds ErrKind = iota
	ColOutOfBounds
	IndexOutOfBounds
)

func (k ErrKind) String() string {
	switch k {
	case RowOutOfBounds:
		return "RowOutOfBounds"
	case ColOutOfBounds:
		return "ColOutOfBounds"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	default:
		return "Unknown"
	}
}

// Error reports an invalid document coordinate.
type Error struct {
	Kind    ErrKind
	Row     int
	Col     int
	Context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("buffer: %s at row=%d col=%d: %s", e.Kind, e.Row, e.Col, e.Context)
}

func lineSum(a, b int) int { return a + b }

// DocumentBuffer holds the live in-memory content of one open document.
type DocumentBuffer struct {
	text  *rope.Rope
	lines *ost.Tree[int]
}

// FromString builds a DocumentBuffer from a full text snapshot.
func FromString(text string) *DocumentBuffer {
	runes := []rune(text)
	lengths := splitLineLengths(runes)
	return &DocumentBuffer{
		text:  rope.New(text),
		lines: ost.NewFromSlice(lengths, lineSum),
	}
}

// splitLineLengths computes the length (in runes, including the terminator)
// of each line in runes, per the \n / \r\n / \r rule: a \n immediately
// following \r extends that \r's line; any other occurrence of \n or \r
// terminates its own line. An empty input yields a single zero-length line,
// so a just-created buffer always has at least one logical line.
func splitLineLengths(runes []rune) []int {
	if len(runes) == 0 {
		return []int{0}
	}
	var lengths []int
	start := 0
	i := 0
	for i < len(runes) {
		switch runes[i] {
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			lengths = append(lengths, i-start)
			start = i
		case '\n':
			i++
			lengths = append(lengths, i-start)
			start = i
		default:
			i++
		}
	}
	if start < len(runes) || len(lengths) == 0 {
		lengths = append(lengths, len(runes)-start)
	}
	return lengths
}

// Len returns the total number of code units stored.
func (d *DocumentBuffer) Len() int { return d.text.Len() }

// LineCount returns the number of logical lines.
func (d *DocumentBuffer) LineCount() int { return d.lines.Len() }

// String materialises the buffer's full contents.
func (d *DocumentBuffer) String() string { return d.text.String() }

// IterRange yields runes in the absolute index range [start, end).
func (d *DocumentBuffer) IterRange(start, end int) func(func(rune) bool) {
	return d.text.Iter(start, end)
}

// absoluteIndex translates (row, col) to an absolute rope index. col == the
// line's full length (including its terminator) is accepted as the
// end-of-line position; col may additionally equal lineLen-termLen (i.e.
// the position immediately before the terminator), treated as "up to but
// excluding the line terminator" per the accepted convention for editors
// addressing end-of-line without the newline itself.
func (d *DocumentBuffer) absoluteIndex(row, col int) (int, error) {
	if row < 0 || row >= d.lines.Len() {
		return 0, &Error{Kind: RowOutOfBounds, Row: row, Col: col}
	}
	lineLen, _ := d.lines.Get(row)
	if col < 0 || col > lineLen {
		return 0, &Error{Kind: ColOutOfBounds, Row: row, Col: col}
	}
	prefix := 0
	if row > 0 {
		sum, ok := d.lines.GetRange(0, row)
		if ok {
			prefix = sum
		}
	}
	return prefix + col, nil
}

// InsertText inserts text at editor coordinate (row, col), splitting or
// merging OST entries as the line terminators inside text (and surrounding
// context) dictate.
func (d *DocumentBuffer) InsertText(text string, row, col int) error {
	if text == "" {
		if _, err := d.absoluteIndex(row, col); err != nil {
			return err
		}
		return nil
	}

	idx, err := d.absoluteIndex(row, col)
	if err != nil {
		return err
	}

	chunk := []rune(text)
	if err := d.text.Insert(chunk, idx); err != nil {
		return &Error{Kind: IndexOutOfBounds, Row: row, Col: col, Context: err.Error()}
	}

	oldLineLen, _ := d.lines.Get(row)
	newLengths := splitLineLengths(chunk)

	// The inserted chunk lands inside line `row`: the first new piece
	// absorbs the prefix before col. Whether the suffix after col merges
	// into the chunk's last piece or becomes its own trailing piece
	// depends on whether the chunk itself ends with a line terminator —
	// if it does, the suffix starts a line of its own.
	prefixLen := col
	suffixLen := oldLineLen - col
	endsWithTerminator := len(chunk) > 0 && (chunk[len(chunk)-1] == '\n' || chunk[len(chunk)-1] == '\r')

	var pieces []int
	if endsWithTerminator {
		pieces = make([]int, len(newLengths)+1)
		copy(pieces, newLengths)
		pieces[len(pieces)-1] = suffixLen
	} else {
		pieces = make([]int, len(newLengths))
		copy(pieces, newLengths)
		pieces[len(pieces)-1] += suffixLen
	}
	pieces[0] += prefixLen

	if err := d.lines.Delete(row); err != nil {
		return err
	}
	for i, p := range pieces {
		if err := d.lines.Insert(row+i, p); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRange removes the half-open range between two editor-visible
// coordinates (r0, c0) and (r1, c1).
func (d *DocumentBuffer) DeleteRange(r0, c0, r1, c1 int) error {
	start, err := d.absoluteIndex(r0, c0)
	if err != nil {
		return err
	}
	end, err := d.absoluteIndex(r1, c1)
	if err != nil {
		return err
	}
	if start >= end {
		return nil
	}

	d.text.Delete(start, end)

	// Replace every line entry spanned by [r0, r1] with a single merged
	// entry: the prefix of line r0 before c0, plus the suffix of line r1
	// after c1.
	lastLen, _ := d.lines.Get(r1)
	merged := c0 + (lastLen - c1)

	for i := r1; i >= r0; i-- {
		if err := d.lines.Delete(r0); err != nil {
			return err
		}
	}
	if err := d.lines.Insert(r0, merged); err != nil {
		return err
	}
	return nil
}
