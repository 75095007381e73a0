package main

import (
	"os"

	"github.com/indrajala/indralib/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
