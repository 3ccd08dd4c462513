package main

import (
	"os"

	"github.com/ivlev/screencut/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
