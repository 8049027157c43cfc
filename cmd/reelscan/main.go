// Package main provides the entry point for the reelscan CLI, the media
// folder scanner of the reel application.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
