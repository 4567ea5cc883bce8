package main

import (
	"os"

	"github.com/gartstein/bizniz/internal/bizniz/cli"
)

func main() {
	os.Exit(cli.Execute())
}
