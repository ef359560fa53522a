package main

import (
	"os"

	"github.com/engrbugs/ticktok/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
