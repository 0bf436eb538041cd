package main

import (
	"os"

	"github.com/musicverse/musicverse-backend-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
