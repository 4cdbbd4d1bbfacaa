// Command pulsectl loads, inspects and stores pulse templates.
package main

import (
	"os"

	"github.com/roach88/qctoolkit/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
