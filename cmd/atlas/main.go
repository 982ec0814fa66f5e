// Command atlas is the command-line client of the atlas API.
package main

import (
	"os"

	"github.com/turtacn/CoalTransition-Atlas/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
