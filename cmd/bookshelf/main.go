// bookshelf is a terminal client for the book search server. Each
// invocation restores the device state (token, last search, local id
// index) from the config directory, runs one command through the
// reconciliation layer, and persists the state back.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
