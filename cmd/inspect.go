package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"micromachine.dev/vendor-externals/lib/externals"
	"micromachine.dev/vendor-externals/lib/utils"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints what the externals configuration resolves to",
	Run: func(cmd *cobra.Command, args []string) {
		plugin, path, err := loadPlugin()
		if err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			os.Exit(1)
		}

		utils.LogWithColor(utils.Success, fmt.Sprintf("✓ %s is valid", path))
		printAggregates(plugin.Aggregates(), plugin.OutputPath())
	},
}

func printAggregates(a *externals.Aggregates, outputPath string) {
	utils.LogWithColor(utils.Heading, "Externals")
	for _, module := range a.Table.Modules() {
		global := "(no global)"
		if g := a.Table[module]; g != nil {
			global = *g
		}
		utils.LogWithColor(utils.Default, fmt.Sprintf("  %s %s %s", module, utils.Gray.Render("→"), global))
	}

	printGroup("Prepended", a.Prepend)
	printGroup("Appended", a.Append)

	utils.LogWithColor(utils.Heading, fmt.Sprintf("Copied to %s/", outputPath))
	if len(a.Copy) == 0 {
		utils.LogWithColor(utils.Muted, "  (nothing)")
	}
	for _, asset := range a.Copy {
		utils.LogWithColor(utils.EntryStyle(false), "  "+asset)
	}
}

func printGroup(title string, entries []externals.ResolvedEntry) {
	utils.LogWithColor(utils.Heading, title)
	if len(entries) == 0 {
		utils.LogWithColor(utils.Muted, "  (nothing)")
	}
	for _, entry := range entries {
		utils.LogWithColor(utils.EntryStyle(entry.IsRemote()), fmt.Sprintf("  %s %s", entry.Path, utils.Gray.Render("("+entry.Kind.String()+")")))
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
