// internal/diff/apply.go
package diff

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrApply means the diff does not apply cleanly to the given baseline.
	ErrApply = errors.New("diff does not apply to baseline")
	// ErrMalformed means the diff text itself could not be parsed.
	ErrMalformed = errors.New("malformed diff")
)

// Apply reconstructs the edited document by replaying diffText on top of
// oldLines. An empty diff returns the baseline unchanged. The baseline
// must match every context and deletion line exactly; drifted baselines
// are expected to have been screened out by conflict detection before
// this is called.
func Apply(oldLines []string, diffText string) ([]string, error) {
	if strings.TrimSpace(diffText) == "" {
		return append([]string(nil), oldLines...), nil
	}

	hunks, err := Parse(diffText)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(oldLines))
	pos := 0
	for _, h := range hunks {
		start := h.OldStart - 1
		if h.OldLines == 0 {
			start = h.OldStart
		}
		if start < pos || start > len(oldLines) {
			return nil, fmt.Errorf("hunk at old line %d: %w", h.OldStart, ErrApply)
		}
		out = append(out, oldLines[pos:start]...)
		pos = start

		for _, line := range h.Lines {
			switch line.Type {
			case Context, Deletion:
				if pos >= len(oldLines) || oldLines[pos] != line.Content {
					return nil, fmt.Errorf("baseline mismatch at old line %d: %w", pos+1, ErrApply)
				}
				if line.Type == Context {
					out = append(out, line.Content)
				}
				pos++
			case Addition:
				out = append(out, line.Content)
			}
		}
	}
	out = append(out, oldLines[pos:]...)

	return out, nil
}

// Parse decodes diff text produced by Engine.Compute back into hunks.
func Parse(diffText string) ([]Hunk, error) {
	var hunks []Hunk
	var current *Hunk

	lines := strings.Split(diffText, "\n")
	for idx, raw := range lines {
		// Trailing element from the final newline.
		if raw == "" && idx == len(lines)-1 {
			break
		}

		if strings.HasPrefix(raw, "@@") {
			if current != nil {
				hunks = append(hunks, *current)
			}
			var h Hunk
			if _, err := fmt.Sscanf(raw, "@@ -%d,%d +%d,%d @@",
				&h.OldStart, &h.OldLines, &h.NewStart, &h.NewLines); err != nil {
				return nil, fmt.Errorf("bad hunk header %q: %w", raw, ErrMalformed)
			}
			current = &h
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d outside any hunk: %w", idx+1, ErrMalformed)
		}
		if raw == "" {
			return nil, fmt.Errorf("empty line %d inside hunk body: %w", idx+1, ErrMalformed)
		}

		switch raw[0] {
		case '+':
			current.Lines = append(current.Lines, Line{Type: Addition, Content: raw[1:]})
		case '-':
			current.Lines = append(current.Lines, Line{Type: Deletion, Content: raw[1:]})
		case ' ':
			current.Lines = append(current.Lines, Line{Type: Context, Content: raw[1:]})
		default:
			return nil, fmt.Errorf("bad line prefix %q: %w", raw[:1], ErrMalformed)
		}
	}
	if current != nil {
		hunks = append(hunks, *current)
	}

	// Line counts must agree with the headers.
	for _, h := range hunks {
		oldCount, newCount := 0, 0
		for _, line := range h.Lines {
			if line.Type != Addition {
				oldCount++
			}
			if line.Type != Deletion {
				newCount++
			}
		}
		if oldCount != h.OldLines || newCount != h.NewLines {
			return nil, fmt.Errorf("hunk body does not match header counts: %w", ErrMalformed)
		}
	}

	return hunks, nil
}
