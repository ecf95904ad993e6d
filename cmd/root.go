package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "micromachine-externals",
	Short: "Loads vendor libraries through script tags instead of the bundle",
	Long: `micromachine-externals keeps vendor libraries out of your bundle.

Each library declared in the externals configuration is resolved to the
global it defines, its files are copied next to the build output and the
page gets a <script> or <link> tag for every entry.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version string) {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("rootdir", "r", ".", "--rootdir ./apps/hello-world")
	rootCmd.PersistentFlags().StringP("config", "c", "", "--config externals.toml (detected in the root dir when empty)")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig lets every flag be set through a MICROMACHINE_ environment
// variable, e.g. MICROMACHINE_PUBLIC_PATH for --public-path.
func initConfig() {
	viper.SetEnvPrefix("micromachine")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
