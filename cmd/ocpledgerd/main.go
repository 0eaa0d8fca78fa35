// Command ocpledgerd runs the mental-poker ledger coordinator: the HTTP
// surface, the operator, and every hand worker it spawns.
package main

import (
	"fmt"
	"os"

	"onchainpoker/cmd/ocpledgerd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
