package main

import (
	"os"

	"retail-ledger/cmd/bank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
