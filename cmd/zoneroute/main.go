// Package main provides a command line client that plans routes against a
// zone data file without starting any server.
package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err.Error()))
		os.Exit(1)
	}
}
