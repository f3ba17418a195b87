package session

import (
	"context"
	"testing"

	shared "easy/shared/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptChooser replays a fixed sequence of answers and records every
// prompt it was shown.
type scriptChooser struct {
	answers []int
	errs    []error
	prompts []string
	calls   int
}

func (c *scriptChooser) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	c.prompts = append(c.prompts, prompt)
	idx := c.calls
	c.calls++
	if idx < len(c.errs) && c.errs[idx] != nil {
		return 0, c.errs[idx]
	}
	if idx < len(c.answers) {
		return c.answers[idx], nil
	}
	return 0, ErrCancelled
}

func twoConflicts() []ConflictItem {
	// Deliberately out of order; Resolve must sort.
	return []ConflictItem{
		{Path: "b.txt", State: shared.ConflictDeleted},
		{Path: "a.txt", State: shared.ConflictModified},
	}
}

func TestResolveBatchDisk(t *testing.T) {
	chooser := &scriptChooser{answers: []int{batchDisk}}
	got := Resolve(context.Background(), chooser, twoConflicts())

	assert.Equal(t, map[string]shared.Resolution{
		"a.txt": shared.ResolveDisk,
		"b.txt": shared.ResolveDisk,
	}, got)
	assert.Equal(t, 1, chooser.calls)
}

func TestResolveBatchStashed(t *testing.T) {
	chooser := &scriptChooser{answers: []int{batchStashed}}
	got := Resolve(context.Background(), chooser, twoConflicts())

	assert.Equal(t, map[string]shared.Resolution{
		"a.txt": shared.ResolveStashed,
		"b.txt": shared.ResolveStashed,
	}, got)
}

func TestResolveBatchCancel(t *testing.T) {
	chooser := &scriptChooser{errs: []error{ErrCancelled}}
	got := Resolve(context.Background(), chooser, twoConflicts())

	assert.Equal(t, map[string]shared.Resolution{
		"a.txt": shared.ResolveSkip,
		"b.txt": shared.ResolveSkip,
	}, got)
}

func TestResolveEscalateToIndividual(t *testing.T) {
	chooser := &scriptChooser{answers: []int{batchIndividual, fileDisk, fileStashed}}
	got := Resolve(context.Background(), chooser, twoConflicts())

	assert.Equal(t, map[string]shared.Resolution{
		"a.txt": shared.ResolveDisk,
		"b.txt": shared.ResolveStashed,
	}, got)

	// Batch prompt first, then per-file prompts in lexicographic order.
	require.Len(t, chooser.prompts, 3)
	assert.Contains(t, chooser.prompts[1], "a.txt")
	assert.Contains(t, chooser.prompts[2], "b.txt")
}

func TestResolveSingleGoesStraightToIndividual(t *testing.T) {
	chooser := &scriptChooser{answers: []int{fileStashed}}
	got := Resolve(context.Background(), chooser, []ConflictItem{
		{Path: "only.txt", State: shared.ConflictModified},
	})

	assert.Equal(t, map[string]shared.Resolution{
		"only.txt": shared.ResolveStashed,
	}, got)
	require.Len(t, chooser.prompts, 1)
	assert.Contains(t, chooser.prompts[0], "only.txt")
	assert.Contains(t, chooser.prompts[0], "modified")
}

func TestResolveSkipRemaining(t *testing.T) {
	chooser := &scriptChooser{answers: []int{batchIndividual, fileDisk, fileSkipRemaining}}
	got := Resolve(context.Background(), chooser, []ConflictItem{
		{Path: "c.txt", State: shared.ConflictModified},
		{Path: "a.txt", State: shared.ConflictModified},
		{Path: "b.txt", State: shared.ConflictDeleted},
	})

	assert.Equal(t, map[string]shared.Resolution{
		"a.txt": shared.ResolveDisk,
		"b.txt": shared.ResolveSkip,
		"c.txt": shared.ResolveSkip,
	}, got)
	// No prompt for c.txt after skip-remaining.
	assert.Equal(t, 3, chooser.calls)
}

func TestResolveIndividualCancel(t *testing.T) {
	chooser := &scriptChooser{answers: []int{batchIndividual}, errs: []error{nil, ErrCancelled}}
	got := Resolve(context.Background(), chooser, twoConflicts())

	assert.Equal(t, map[string]shared.Resolution{
		"a.txt": shared.ResolveSkip,
		"b.txt": shared.ResolveSkip,
	}, got)
}

func TestResolveEmpty(t *testing.T) {
	chooser := &scriptChooser{}
	got := Resolve(context.Background(), chooser, nil)
	assert.Empty(t, got)
	assert.Zero(t, chooser.calls)
}
