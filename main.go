package main

import (
	"os"

	"dead_link_checker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
