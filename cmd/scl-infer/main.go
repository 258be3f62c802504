// Command scl-infer is a small harness around the inference core: it
// loads a knowledge base, rule set, argument list, and target from a JSON
// file, runs one forward-chaining inference, and prints the resulting
// solution trace.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
