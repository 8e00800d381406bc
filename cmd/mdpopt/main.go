package main

import (
	"os"

	"github.com/invsim/mdp-optimizer/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
