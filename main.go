package main

import (
	"os"

	"seatmap/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := cmd.Execute(version, commit); err != nil {
		os.Exit(1)
	}
}
