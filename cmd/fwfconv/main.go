// Command fwfconv converts fixed-width flat files to columnar formats
// (Parquet, Arrow IPC, CSV) and can generate mocked fixed-width fixtures
// from a schema. See `fwfconv help` for usage.
package main

import (
	"os"

	"github.com/firelink-data/fwfconv/internal/fwfcli"
)

func main() {
	os.Exit(fwfcli.Execute(os.Args[1:]))
}
