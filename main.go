/*
Copyright © 2026 Micromachine
*/
package main

import (
	"log/slog"
	"os"

	"micromachine.dev/vendor-externals/cmd"
	"micromachine.dev/vendor-externals/lib/utils"
)

var Version = "dev"

func main() {
	level := slog.LevelInfo
	if os.Getenv("MICROMACHINE_DEBUG") != "" {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(utils.NewColorHandler(level)))
	cmd.Execute(Version)
}
