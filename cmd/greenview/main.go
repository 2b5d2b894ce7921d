// cmd/greenview/main.go
package main

import (
	cmd "github.com/mwiater/greenview/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main hands build metadata to the CLI and runs the root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
