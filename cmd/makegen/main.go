// Package main is the makegen entrypoint.
package main

import (
	"os"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
