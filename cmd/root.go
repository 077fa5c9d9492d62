package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "repobridge",
	Short: "Local repository bridge for the workspace assistant",
	Long: `repobridge grants the workspace assistant access to a local working
directory without a server-side clone:
  - builds a bounded snapshot of the readable text files
  - persists it across restarts through tiered storage
  - answers grep-style and documentation-context queries over it
  - reads and writes the repository's ref plumbing (HEAD, branch refs,
    packed-refs) directly, without invoking a version-control binary

Projects backed by this bridge carry a browser-local:// repo path instead
of a server-managed clone URL.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/repobridge/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "repobridge")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("snapshot.max_files", 400)
	viper.SetDefault("snapshot.max_total_chars", 1_200_000)
	viper.SetDefault("snapshot.max_file_bytes", 262_144)
	viper.SetDefault("context.max_chars", 20_000)
	viper.SetDefault("docs.max_files", 40)
	viper.SetDefault("docs.max_file_chars", 8_000)
	viper.SetDefault("docs.max_total_chars", 60_000)
	viper.SetDefault("docs.per_root_cap", 18)
	viper.SetDefault("git.fallback_branch", "main")
	viper.SetDefault("git.max_branches", 200)
	viper.SetDefault("consent.auto", false)
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
