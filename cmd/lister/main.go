package main

import (
	"github.com/custodia-labs/lister-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
