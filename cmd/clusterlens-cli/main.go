package main

import (
	"log/slog"
	"os"

	"github.com/clusterlens/clusterlens/cmd/clusterlens-cli/commands"
	"github.com/clusterlens/clusterlens/shared"
)

func Execute() {
	err := commands.GetRootCmd().Execute()
	if err != nil {
		slog.Error("Error executing command", "err", err)
		os.Exit(1)
	}
}

func init() {
	commands.GetRootCmd().AddCommand(commands.NewSnapshotCommand())
	commands.GetRootCmd().AddCommand(commands.NewExportCommand())
}

func main() {
	shared.InitLogger()
	Execute()
}
