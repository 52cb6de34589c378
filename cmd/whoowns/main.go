package main

import (
	_ "whoowns/internal/backend/findowners"
	_ "whoowns/internal/backend/yamlowners"
	"whoowns/internal/cli"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
