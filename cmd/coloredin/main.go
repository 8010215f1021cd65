// Package main provides the coloredin command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/coloredin/coloredin-server/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
