// Command financectl is the operator tool for a running financery server.
// It mints admin tokens and drives the admin RPCs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mmynk/financery/pkg/logging"
)

func main() {
	logging.Setup(os.Getenv("FINANCERY_LOG_LEVEL"))

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "financectl",
		Usage: "financery operator tool",
		Commands: []*cli.Command{
			tokenCommand(),
			clearCacheCommand(),
			cachedUsersCommand(),
		},
	}
}
