// Command a2a-cli is the operator CLI for the XActions A2A runtime: start,
// status, skills, agents, discover, and task, per spec.md §6. Grounded on
// the teacher's cli/cmd/kagent/main.go pattern of a one-line entrypoint
// over a cobra command tree built in an internal package.
package main

import (
	"fmt"
	"os"

	"github.com/xactions/a2a-runtime/internal/cliapp"
)

func main() {
	if err := cliapp.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
