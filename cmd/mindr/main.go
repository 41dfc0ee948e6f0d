package main

import (
	"os"

	"github.com/sandeepkv93/mindr/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
