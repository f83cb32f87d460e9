// Command contxt is the command line client for the Contxt EMS and IOT
// services.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrcrawfo/contxt-go/internal/api"
	"github.com/jrcrawfo/contxt-go/internal/cli"
	"github.com/jrcrawfo/contxt-go/pkg/version"
)

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitAuth      = 3
	exitCancelled = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the root command with args and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCode(err)
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitCancelled
	case errors.Is(err, api.ErrNoToken):
		return exitAuth
	default:
		return exitError
	}
}
