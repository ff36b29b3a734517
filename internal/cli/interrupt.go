package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// withInterrupt cancels the returned context on the first SIGINT/SIGTERM and
// prints msg once. Further signals are swallowed until stop is called, so a
// second Ctrl-C cannot kill the process while the partial batch is flushed.
func withInterrupt(parent context.Context, out io.Writer, msg string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			fmt.Fprintln(out, msg)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}
