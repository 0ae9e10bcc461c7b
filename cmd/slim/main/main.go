package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/slim/cmd/slim"
	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/ui/styles"
)

// exitInterrupted follows the shell convention for SIGINT
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := slim.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, styles.GetStyle("Error").Render(fmt.Sprintf("Error: %v", err)))

		stop()
		if errors.IsErrorCode(err, errors.ErrCancelled) {
			os.Exit(exitInterrupted)
		}
		os.Exit(1)
	}
}
