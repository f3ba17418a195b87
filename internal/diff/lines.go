// internal/diff/lines.go
package diff

import "strings"

// SplitLines converts raw file content into editor-style lines. Empty
// content yields no lines. A trailing newline does not produce a final
// empty line.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// JoinLines converts editor-style lines back into file content with a
// trailing newline. No lines yields empty content.
func JoinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
