package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mcdonaldj/icograb/internal/cli"
	"github.com/mcdonaldj/icograb/internal/tui"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	// Handle TUI mode (ui/tui command)
	if len(os.Args) > 1 && (os.Args[1] == "ui" || os.Args[1] == "tui") {
		if err := tui.Run(os.Args[2:]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Use CLI for everything else
	c := cli.New(version)
	c.Run(context.Background())
}
