package main

import (
	"os"

	"github.com/msto63/textomat/cmd/textomat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
