// internal/session/resolve.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"

	shared "easy/shared/types"
)

// ErrCancelled is returned by a Chooser when the user dismisses the
// prompt without selecting anything. Cancellation always resolves to
// skip for every undecided file.
var ErrCancelled = errors.New("choice cancelled")

// Chooser is the interactive capability the host supplies for conflict
// resolution. Choose presents options under a prompt and returns the
// selected index, ErrCancelled on dismissal, or the context's error. The
// wait may be arbitrarily long; restore suspends here.
type Chooser interface {
	Choose(ctx context.Context, prompt string, options []string) (int, error)
}

// ConflictItem is one file awaiting a resolution decision.
type ConflictItem struct {
	Path  string
	State shared.Conflict
}

const (
	batchDisk = iota
	batchStashed
	batchIndividual
)

const (
	fileDisk = iota
	fileStashed
	fileSkipRemaining
)

// Resolve maps every conflicted file to exactly one resolution. With more
// than one conflict it opens in batch mode, offering a single decision
// for the whole set or escalation to per-file mode; a single conflict
// goes straight to per-file mode. Files are always presented in
// lexicographic path order, and cancellation at any point resolves all
// remaining files as skip.
func Resolve(ctx context.Context, chooser Chooser, conflicts []ConflictItem) map[string]shared.Resolution {
	items := append([]ConflictItem(nil), conflicts...)
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })

	decisions := make(map[string]shared.Resolution, len(items))
	for _, item := range items {
		decisions[item.Path] = shared.ResolveSkip
	}
	if len(items) == 0 {
		return decisions
	}

	if len(items) > 1 {
		prompt := fmt.Sprintf("%d files changed on disk since the session was saved", len(items))
		choice, err := chooser.Choose(ctx, prompt, []string{
			"Keep disk versions for all",
			"Keep stashed versions for all",
			"Decide file by file",
		})
		if err != nil {
			return decisions
		}
		switch choice {
		case batchDisk:
			for _, item := range items {
				decisions[item.Path] = shared.ResolveDisk
			}
			return decisions
		case batchStashed:
			for _, item := range items {
				decisions[item.Path] = shared.ResolveStashed
			}
			return decisions
		case batchIndividual:
			// Fall through to per-file mode.
		default:
			return decisions
		}
	}

	for _, item := range items {
		prompt := fmt.Sprintf("%s was %s on disk since the session was saved", item.Path, item.State)
		choice, err := chooser.Choose(ctx, prompt, []string{
			"Keep disk version",
			"Keep stashed version",
			"Skip this and all remaining",
		})
		if err != nil || choice == fileSkipRemaining {
			return decisions
		}
		switch choice {
		case fileDisk:
			decisions[item.Path] = shared.ResolveDisk
		case fileStashed:
			decisions[item.Path] = shared.ResolveStashed
		}
	}

	return decisions
}
