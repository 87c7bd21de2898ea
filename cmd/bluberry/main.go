// Package main is the entry point for bluberry.
package main

import (
	"os"

	"github.com/donaldgifford/bluberry/cmd/bluberry/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
