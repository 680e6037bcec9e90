// Package main is the teamspace command line. It wires every dependency with
// samber/do v2 per invocation, runs one application service call as the
// acting user, and prints the resulting aggregate.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &cliApp{}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if terr := a.teardown(context.WithoutCancel(ctx)); terr != nil {
		err = errors.Join(err, terr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps a domain failure code to the process exit status.
func exitCode(err error) int {
	switch domain.CodeOf(err) {
	case domain.CodeValidation:
		return 2
	case domain.CodeUnauthorized, domain.CodeForbidden:
		return 3
	case domain.CodeNotFound:
		return 4
	case domain.CodeDuplicate, domain.CodeInvalidState, domain.CodeInvalidTransition:
		return 5
	default:
		return 1
	}
}
