// Command profileload reads a delimited text file of business profiles and
// inserts every row as a Profile into the configured database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "profileload: %v\n", err)
		os.Exit(exitCodeForError(err))
	}
}
