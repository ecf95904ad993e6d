package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"micromachine.dev/vendor-externals/lib/bundler"
	"micromachine.dev/vendor-externals/lib/externals"
	"micromachine.dev/vendor-externals/lib/utils"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundles the application with its vendor externals",
	Long: `The build command bundles your application and wires in its vendor externals.
It performs the following steps:
1. Locates and validates the externals configuration (json, jsonc, toml or yaml).
2. Merges the declared externals into the bundler's externals.
3. Bundles the entrypoints, reading every external from its global.
4. Copies the vendor files and injects their tags into the HTML page.`,
	Run: func(cmd *cobra.Command, args []string) {
		plugin, path, err := loadPlugin()
		if err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			os.Exit(1)
		}
		utils.LogWithColor(utils.Default, fmt.Sprintf("Using externals from \033[1m`%s`\033[0m", path))

		hostExternals, err := parseHostExternals(viper.GetStringSlice("host-external"), viper.GetStringSlice("host-global"))
		if err != nil {
			slog.Error(fmt.Sprintf("✗ %v", err))
			os.Exit(1)
		}

		bundle := bundler.Bundle{
			RootDir:     viper.GetString("rootdir"),
			EntryPoints: viper.GetStringSlice("entry"),
			Output: bundler.Output{
				Dir:        viper.GetString("outdir"),
				PublicPath: viper.GetString("public-path"),
			},
			Template:    viper.GetString("template"),
			Environment: viper.GetString("env"),
			Externals:   hostExternals,
			Plugins:     []bundler.Plugin{plugin},
		}

		start := time.Now()
		utils.LogWithColor(utils.Cyan, "Running `micromachine-externals build`...")

		if err := bundle.Pack(); err != nil {
			os.Exit(1)
		}

		elapsed := time.Since(start)
		utils.LogWithColor(utils.Success, fmt.Sprintf("✓ Completed `micromachine-externals build` in %s", elapsed))
	},
}

// parseHostExternals builds the externals the bundler starts with. Plain
// names become a sequence, name=Global pairs a mapping, and both together a
// sequence ending with the mapping.
func parseHostExternals(names, globals []string) (externals.HostExternals, error) {
	var table externals.Table
	if len(globals) > 0 {
		table = externals.Table{}
		for _, pair := range globals {
			module, global, ok := strings.Cut(pair, "=")
			if !ok || module == "" {
				return externals.HostExternals{}, fmt.Errorf("invalid --host-global %q, expected module=Global", pair)
			}
			table[module] = externals.Global(global)
		}
	}

	if len(names) == 0 {
		if table == nil {
			return externals.HostExternals{}, nil
		}
		return externals.MappingExternals(table), nil
	}

	resolvers := make([]externals.Resolver, 0, len(names)+1)
	for _, name := range names {
		resolvers = append(resolvers, externals.Name(name))
	}
	if table != nil {
		resolvers = append(resolvers, table)
	}
	return externals.SequenceExternals(resolvers...), nil
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringSliceP("entry", "i", []string{"src/index.js"}, "--entry src/index.js")
	buildCmd.Flags().StringP("outdir", "o", "dist", "--outdir dist")
	buildCmd.Flags().StringP("public-path", "p", "/", "--public-path /static/")
	buildCmd.Flags().StringP("template", "t", "", "--template index.html")
	buildCmd.Flags().StringP("env", "e", "production", "--e production")
	buildCmd.Flags().StringSlice("host-external", nil, "--host-external electron (left external without a global)")
	buildCmd.Flags().StringSlice("host-global", nil, "--host-global react=React")

	_ = viper.BindPFlags(buildCmd.Flags())
}
