// Command remindr sends recurring subscriber emails.
//
// Usage:
//
//	remindr serve          HTTP trigger, preview and test-send API plus the periodic job
//	remindr dispatch       run one batch and print the report
//	remindr migrate        apply database and job queue migrations
//	remindr preview FILE   render a template file with sample data
//	remindr occurrences    list the next send dates of a recurrence rule
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
