// internal/diff/diff.go
package diff

import (
	"fmt"
	"strings"
)

// LineType indicates whether a line was added, removed, or is context
type LineType int

const (
	Context LineType = iota
	Addition
	Deletion
)

// Line is a single line in a hunk with its type and content
type Line struct {
	Type    LineType
	Content string
}

// Hunk represents a continuous section of changes
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Engine computes line-based diffs between two documents
type Engine struct {
	contextLines int
}

// NewEngine creates a new diff engine with specified context lines
func NewEngine(contextLines int) *Engine {
	return &Engine{
		contextLines: contextLines,
	}
}

// op is one step of the edit script, in forward order. oldNum/newNum are
// 1-based line numbers when the op consumes a line on that side, 0 otherwise.
type op struct {
	typ     LineType
	content string
	oldNum  int
	newNum  int
}

// Compute generates a textual diff transforming oldLines into newLines.
// Identical inputs produce an empty diff, which is valid.
func (e *Engine) Compute(oldLines, newLines []string) (string, error) {
	ops := e.editScript(oldLines, newLines)
	hunks := e.buildHunks(ops)
	return formatHunks(hunks), nil
}

// editScript backtracks through the LCS matrix to produce the full edit
// script, including a context op for every unchanged line.
func (e *Engine) editScript(oldLines, newLines []string) []op {
	lcs := e.computeLCS(oldLines, newLines)

	var ops []op
	i, j := len(oldLines), len(newLines)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && oldLines[i-1] == newLines[j-1]:
			ops = append(ops, op{typ: Context, content: oldLines[i-1], oldNum: i, newNum: j})
			i--
			j--
		case j > 0 && (i == 0 || lcs[i][j-1] >= lcs[i-1][j]):
			ops = append(ops, op{typ: Addition, content: newLines[j-1], newNum: j})
			j--
		default:
			ops = append(ops, op{typ: Deletion, content: oldLines[i-1], oldNum: i})
			i--
		}
	}

	// Backtracking walks end to start; restore forward order.
	for a, b := 0, len(ops)-1; a < b; a, b = a+1, b-1 {
		ops[a], ops[b] = ops[b], ops[a]
	}
	return ops
}

// computeLCS creates a matrix for longest common subsequence
func (e *Engine) computeLCS(oldLines, newLines []string) [][]int {
	matrix := make([][]int, len(oldLines)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(newLines)+1)
	}

	for i := 1; i <= len(oldLines); i++ {
		for j := 1; j <= len(newLines); j++ {
			if oldLines[i-1] == newLines[j-1] {
				matrix[i][j] = matrix[i-1][j-1] + 1
			} else {
				matrix[i][j] = max(matrix[i-1][j], matrix[i][j-1])
			}
		}
	}

	return matrix
}

// buildHunks groups the edit script into hunks with surrounding context.
// Change clusters separated by at most twice the context width fold into a
// single hunk.
func (e *Engine) buildHunks(ops []op) []Hunk {
	var changes []int
	for idx, o := range ops {
		if o.typ != Context {
			changes = append(changes, idx)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	// Cumulative old/new lines consumed before each op index.
	oldBefore := make([]int, len(ops)+1)
	newBefore := make([]int, len(ops)+1)
	for idx, o := range ops {
		oldBefore[idx+1] = oldBefore[idx]
		newBefore[idx+1] = newBefore[idx]
		if o.oldNum > 0 {
			oldBefore[idx+1]++
		}
		if o.newNum > 0 {
			newBefore[idx+1]++
		}
	}

	var hunks []Hunk
	clusterStart := changes[0]
	clusterEnd := changes[0]
	flush := func() {
		start := max(0, clusterStart-e.contextLines)
		end := min(len(ops)-1, clusterEnd+e.contextLines)

		h := Hunk{}
		for _, o := range ops[start : end+1] {
			h.Lines = append(h.Lines, Line{Type: o.typ, Content: o.content})
			if o.typ == Context || o.typ == Deletion {
				h.OldLines++
			}
			if o.typ == Context || o.typ == Addition {
				h.NewLines++
			}
		}
		h.OldStart = oldBefore[start]
		if h.OldLines > 0 {
			h.OldStart++
		}
		h.NewStart = newBefore[start]
		if h.NewLines > 0 {
			h.NewStart++
		}
		hunks = append(hunks, h)
	}

	for _, idx := range changes[1:] {
		if idx-clusterEnd-1 <= 2*e.contextLines {
			clusterEnd = idx
			continue
		}
		flush()
		clusterStart, clusterEnd = idx, idx
	}
	flush()

	return hunks
}

// formatHunks renders hunks in unified-diff style with single-character
// line prefixes.
func formatHunks(hunks []Hunk) string {
	var b strings.Builder
	for _, h := range hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		for _, line := range h.Lines {
			switch line.Type {
			case Addition:
				b.WriteByte('+')
			case Deletion:
				b.WriteByte('-')
			case Context:
				b.WriteByte(' ')
			}
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
