// crystalctl is the command-line interface to the crystal pipeline.
package main

import "github.com/gemmology-dev/crystal-api/internal/interfaces/cli"

func main() {
	cli.Execute()
}
