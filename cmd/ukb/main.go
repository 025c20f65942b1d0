// Command ukb compiles relation files into graph snapshots and queries them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ukb:", err)
		os.Exit(1)
	}
}
