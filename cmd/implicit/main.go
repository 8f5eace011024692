// Command implicit polygonizes implicit surfaces into triangle meshes.
package main

import (
	"os"

	"github.com/soypat/implicit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
