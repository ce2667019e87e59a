package main

import (
	"os"

	"github.com/scvtools/scvcheck/cmd/scvcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
