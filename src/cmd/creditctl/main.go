package main

import (
	"os"

	"github.com/jackyeh168/credit_ledger/src/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
