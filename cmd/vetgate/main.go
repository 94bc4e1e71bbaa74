package main

import (
	"os"

	"vetgate/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
