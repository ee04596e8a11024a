// Command inspector browses the tables and rows of an embedded object
// database from the command line.
package main

import (
	"os"

	"github.com/mesh-intelligence/inspector/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
