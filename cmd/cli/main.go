// hxlog - HelixDebug log parser and viewer
//
// hxlog decodes HelixDebug log files in the background and shows the
// records in a filterable terminal view or prints them as text or JSON.
package main

import (
	"os"

	"github.com/ccollicutt/hxlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
