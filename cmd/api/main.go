package main

import (
	"os"

	"github.com/dennisohere/quickform/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
