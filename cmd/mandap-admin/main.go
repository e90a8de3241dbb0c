package main

import (
	"os"

	"github.com/rahulwaghole14/mandap/cmd/mandap-admin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
