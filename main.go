package main

import (
	"os"

	"github.com/mlx-qa/mlx-e2e/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
