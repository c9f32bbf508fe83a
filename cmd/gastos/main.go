package main

import (
	"os"

	"github.com/gastos-dev/gastos/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
