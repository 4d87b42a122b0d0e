// Command digestctl runs the deadline digest pipeline offline and manages
// the digest archive schema.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
