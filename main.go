// Package main is the entry point for the hlsget application.
package main

import (
	"github.com/hlsget-cli/hlsget/cmd"
	"github.com/hlsget-cli/hlsget/config"
	"github.com/hlsget-cli/hlsget/internal/janitor"
	"github.com/hlsget-cli/hlsget/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Prune scratch directories abandoned by interrupted runs.
	janitor.Sweep()

	cmd.Execute()
}
