// Command prophet is the ingestion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/patent-prophet/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
