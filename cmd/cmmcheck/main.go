// Command cmmcheck runs end-to-end checks of the C-minus compiler against
// the spim simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sameersismail/cmmcheck/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "cmmcheck: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
