// cmd/easy/chooser.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"easy/internal/session"

	"github.com/fatih/color"
)

// terminalChooser implements session.Chooser over stdin/stdout. An empty
// line, "q", or EOF counts as cancellation.
type terminalChooser struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalChooser(in io.Reader, out io.Writer) *terminalChooser {
	return &terminalChooser{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (c *terminalChooser) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	fmt.Fprintln(c.out)
	color.New(color.FgYellow, color.Bold).Fprintln(c.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprintf(c.out, "Choice (1-%d, empty to cancel): ", len(options))

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case a := <-ch:
		if a.err != nil {
			return 0, session.ErrCancelled
		}
		line := strings.TrimSpace(a.line)
		if line == "" || strings.EqualFold(line, "q") {
			return 0, session.ErrCancelled
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			return 0, session.ErrCancelled
		}
		return n - 1, nil
	}
}
