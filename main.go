package main

import (
	"os"

	"github.com/pigeonic/banglachat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
