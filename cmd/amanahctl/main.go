package main

import (
	"fmt"
	"os"

	"github.com/amanah-profile-site/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "amanahctl:", err)
		os.Exit(1)
	}
}
