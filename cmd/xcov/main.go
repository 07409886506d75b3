// Package main is the entry point for the xcov CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/xcov/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
