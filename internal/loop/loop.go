// Package loop runs Dodge on a local terminal.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tomz197/dodge/internal/loop/client"
)

// Run puts in into raw mode, plays until the player quits or the shutdown
// notice started by cancelling ctx runs out, then restores the terminal.
func Run(ctx context.Context, in *os.File, out io.Writer, opts client.ClientOptions) error {
	fd := int(in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(bufio.NewReader(in), out, opts)
	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}
