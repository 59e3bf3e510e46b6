package main

import (
	"os"

	"github.com/gumanista/hate-2-action/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
