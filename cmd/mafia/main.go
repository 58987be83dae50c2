package main

import (
	"os"

	"github.com/bnema/mafia-engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
