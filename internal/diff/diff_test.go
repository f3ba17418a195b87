package diff

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, oldLines, newLines []string) {
	t.Helper()

	engine := NewEngine(3)
	text, err := engine.Compute(oldLines, newLines)
	require.NoError(t, err)

	restored, err := Apply(oldLines, text)
	require.NoError(t, err)
	assert.Equal(t, append([]string{}, newLines...), append([]string{}, restored...))
}

func TestComputeApplyRoundTrip(t *testing.T) {
	t.Run("Identical", func(t *testing.T) {
		lines := []string{"a", "b", "c"}
		engine := NewEngine(3)
		text, err := engine.Compute(lines, lines)
		require.NoError(t, err)
		assert.Empty(t, text, "no changes should produce an empty diff")
		roundTrip(t, lines, lines)
	})

	t.Run("NewFile", func(t *testing.T) {
		roundTrip(t, nil, []string{"first", "second"})
	})

	t.Run("Emptied", func(t *testing.T) {
		roundTrip(t, []string{"only"}, nil)
	})

	t.Run("Append", func(t *testing.T) {
		roundTrip(t, []string{"1", "2"}, []string{"1", "2", "3"})
	})

	t.Run("Prepend", func(t *testing.T) {
		roundTrip(t, []string{"b", "c"}, []string{"a", "b", "c"})
	})

	t.Run("DeleteMiddle", func(t *testing.T) {
		roundTrip(t, []string{"a", "b", "c", "d"}, []string{"a", "d"})
	})

	t.Run("Replace", func(t *testing.T) {
		roundTrip(t,
			[]string{"func main() {", "\tprintln(1)", "}"},
			[]string{"func main() {", "\tprintln(2)", "}"})
	})

	t.Run("MultipleHunks", func(t *testing.T) {
		var oldLines, newLines []string
		for i := 0; i < 40; i++ {
			oldLines = append(oldLines, fmt.Sprintf("line %d", i))
			newLines = append(newLines, fmt.Sprintf("line %d", i))
		}
		newLines[2] = "changed near top"
		newLines[37] = "changed near bottom"
		roundTrip(t, oldLines, newLines)
	})

	t.Run("EmptyLines", func(t *testing.T) {
		roundTrip(t, []string{"a", "", "b"}, []string{"a", "", "", "c"})
	})
}

func TestApplyEmptyDiff(t *testing.T) {
	lines := []string{"x", "y"}
	restored, err := Apply(lines, "")
	require.NoError(t, err)
	assert.Equal(t, lines, restored)
}

func TestApplyBaselineMismatch(t *testing.T) {
	engine := NewEngine(3)
	text, err := engine.Compute([]string{"a", "b"}, []string{"a", "b2"})
	require.NoError(t, err)

	_, err = Apply([]string{"a", "completely different"}, text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrApply))
}

func TestApplyPreservesTailOutsideHunk(t *testing.T) {
	// A pure append diff targets the original line range only; baseline
	// lines past the hunk survive the apply.
	engine := NewEngine(3)
	text, err := engine.Compute([]string{"1", "2"}, []string{"1", "2", "3"})
	require.NoError(t, err)

	restored, err := Apply([]string{"1", "2", "X"}, text)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "X"}, restored)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"BadHeader":     "@@ nonsense @@\n a\n",
		"NoHeader":      " a\n+b\n",
		"BadPrefix":     "@@ -1,1 +1,1 @@\n?a\n",
		"CountMismatch": "@@ -1,2 +1,2 @@\n a\n",
		"BlankBodyLine": "@@ -0,0 +1,2 @@\n+x\n\n+y\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestSplitJoinLines(t *testing.T) {
	assert.Nil(t, SplitLines(nil))
	assert.Nil(t, SplitLines([]byte{}))
	assert.Equal(t, []string{"a", "b"}, SplitLines([]byte("a\nb\n")))
	assert.Equal(t, []string{"a", "b"}, SplitLines([]byte("a\nb")))
	assert.Equal(t, []string{""}, SplitLines([]byte("\n")))

	assert.Nil(t, JoinLines(nil))
	assert.Equal(t, []byte("a\nb\n"), JoinLines([]string{"a", "b"}))
}
