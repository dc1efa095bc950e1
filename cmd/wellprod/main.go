// cmd/wellprod/main.go
// CLI batch: ingest workbook, inspect tabel, export deret, snapshot, hash password.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
