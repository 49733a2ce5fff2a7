package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffLine represents a single row of the diff
type DiffLine struct {
	Type    LineType
	Content string
	LineNo1 int // Line number on the left side (0 if not applicable)
	LineNo2 int // Line number on the right side (0 if not applicable)
	// Segments splits Content into changed and unchanged runs for lines that
	// were replaced; nil otherwise.
	Segments []Segment
}

// LineType defines the type of diff line
type LineType int

const (
	Equal LineType = iota
	Added
	Removed
)

// DiffResult contains the results of a diff operation
type DiffResult struct {
	Lines      []DiffLine
	LeftLabel  string
	RightLabel string
	LeftLines  []string
	RightLines []string
}

// Options tune how lines are matched.
type Options struct {
	// IgnoreWhitespace matches lines that differ only in whitespace.
	IgnoreWhitespace bool
	// Intraline computes changed segments for replaced line pairs.
	Intraline bool
}

// Engine handles diff operations
type Engine struct {
	opts Options
}

// NewEngine creates a new diff engine
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// DiffLines compares two slices of lines
func (e *Engine) DiffLines(left, right []string, leftLabel, rightLabel string) *DiffResult {
	result := &DiffResult{
		LeftLabel:  leftLabel,
		RightLabel: rightLabel,
		LeftLines:  left,
		RightLines: right,
	}

	opcodes, err := generateOpCodes(e.matchKeys(left), e.matchKeys(right))
	if err != nil {
		// Fall back to a positional diff when the matcher fails
		result.Lines = simpleDiff(left, right)
		return result
	}

	var rows []DiffLine
	lineNo1, lineNo2 := 1, 1

	for _, opcode := range opcodes {
		i1, i2, j1, j2 := opcode.I1, opcode.I2, opcode.J1, opcode.J2

		switch opcode.Tag {
		case 'e':
			for k := 0; k < i2-i1; k++ {
				// show the right side so ignored whitespace changes read as current
				rows = append(rows, DiffLine{Type: Equal, Content: right[j1+k], LineNo1: lineNo1, LineNo2: lineNo2})
				lineNo1++
				lineNo2++
			}
		case 'd':
			for i := i1; i < i2; i++ {
				rows = append(rows, DiffLine{Type: Removed, Content: left[i], LineNo1: lineNo1})
				lineNo1++
			}
		case 'i':
			for j := j1; j < j2; j++ {
				rows = append(rows, DiffLine{Type: Added, Content: right[j], LineNo2: lineNo2})
				lineNo2++
			}
		case 'r':
			// interleave removed/added pairs so each change reads in place
			n := max(i2-i1, j2-j1)
			for k := 0; k < n; k++ {
				paired := k < i2-i1 && k < j2-j1
				if k < i2-i1 {
					row := DiffLine{Type: Removed, Content: left[i1+k], LineNo1: lineNo1}
					if paired && e.opts.Intraline {
						row.Segments, _ = intraline(left[i1+k], right[j1+k])
					}
					rows = append(rows, row)
					lineNo1++
				}
				if k < j2-j1 {
					row := DiffLine{Type: Added, Content: right[j1+k], LineNo2: lineNo2}
					if paired && e.opts.Intraline {
						_, row.Segments = intraline(left[i1+k], right[j1+k])
					}
					rows = append(rows, row)
					lineNo2++
				}
			}
		}
	}

	result.Lines = rows
	return result
}

func (e *Engine) matchKeys(lines []string) []string {
	if !e.opts.IgnoreWhitespace {
		return lines
	}
	keys := make([]string, len(lines))
	for i, line := range lines {
		keys[i] = strings.Join(strings.Fields(line), " ")
	}
	return keys
}

func generateOpCodes(left, right []string) (opcodes []difflib.OpCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("advanced diff failed: %v", r)
		}
	}()

	matcher := difflib.NewMatcher(left, right)
	return matcher.GetOpCodes(), nil
}

func simpleDiff(left, right []string) []DiffLine {
	var rows []DiffLine
	lineNo1, lineNo2 := 1, 1
	n := max(len(left), len(right))

	for i := 0; i < n; i++ {
		hasLeft := i < len(left)
		hasRight := i < len(right)

		switch {
		case hasLeft && hasRight && left[i] == right[i]:
			rows = append(rows, DiffLine{Type: Equal, Content: left[i], LineNo1: lineNo1, LineNo2: lineNo2})
			lineNo1++
			lineNo2++
		case hasLeft && hasRight:
			rows = append(rows,
				DiffLine{Type: Removed, Content: left[i], LineNo1: lineNo1},
				DiffLine{Type: Added, Content: right[i], LineNo2: lineNo2},
			)
			lineNo1++
			lineNo2++
		case hasLeft:
			rows = append(rows, DiffLine{Type: Removed, Content: left[i], LineNo1: lineNo1})
			lineNo1++
		case hasRight:
			rows = append(rows, DiffLine{Type: Added, Content: right[i], LineNo2: lineNo2})
			lineNo2++
		}
	}

	return rows
}

// GetStats returns statistics about the diff
func (r *DiffResult) GetStats() (added, removed, unchanged int) {
	for _, line := range r.Lines {
		switch line.Type {
		case Added:
			added++
		case Removed:
			removed++
		case Equal:
			unchanged++
		}
	}
	return
}

// HasChanges returns true if there are any differences
func (r *DiffResult) HasChanges() bool {
	for _, line := range r.Lines {
		if line.Type != Equal {
			return true
		}
	}
	return false
}

// IndexOfRightLine returns the row showing the 1-based right-side line n.
// When that line is not present the closest following row is returned, and
// -1 when the diff is empty.
func (r *DiffResult) IndexOfRightLine(n int) int {
	if len(r.Lines) == 0 {
		return -1
	}
	last := 0
	for i, line := range r.Lines {
		if line.LineNo2 == 0 {
			continue
		}
		if line.LineNo2 >= n {
			return i
		}
		last = i
	}
	return last
}
