package main

import (
	"os"

	"github.com/homeyscriptkit/hsk/cmd/hsk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
