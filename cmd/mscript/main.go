// Command mscript is the command-line interface to the mscript interpreter.
package main

import (
	"os"

	"github.com/Zorbn/mscript/cmd/mscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
