// Command shotctl is the command-line companion of the advisory server.
package main

import (
	"os"

	"github.com/okian/shotcall/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
