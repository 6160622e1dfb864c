package main

import (
	"os"

	"github.com/andrelmaraujo/mandacaru/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
