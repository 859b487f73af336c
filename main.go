package main

import (
	"os"

	"github.com/pairrecall/pairrecall/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
