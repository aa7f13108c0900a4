package main

import (
	"os"

	"github.com/ZanzyTHEbar/fstrie/fstrie/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
