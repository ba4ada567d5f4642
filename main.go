package main

import (
	"os"

	"github.com/bastienlm/planche/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
