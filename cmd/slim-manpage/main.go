package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/slim/cmd/slim"
	"github.com/arthur-debert/slim/internal/version"
)

func main() {
	rootCmd := slim.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SLIM",
		Section: "1",
		Source:  "slim " + version.Version,
		Manual:  "slim manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
