package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at link time with -ldflags "-X main.version=... -X main.commit=...
// -X main.buildDate=...". Untouched builds report dev.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

// buildLine assembles the one-line version string.
func buildLine() string {
	out := "reelscan " + version
	if commit != "" {
		out += " (" + commit
		if buildDate != "" {
			out += ", " + buildDate
		}
		out += ")"
	}
	return out + " " + runtime.Version()
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(buildLine())
		},
	})
}
