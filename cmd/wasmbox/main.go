package main

import (
	"os"

	"github.com/wasmbox/wasmbox/cmd/wasmbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
