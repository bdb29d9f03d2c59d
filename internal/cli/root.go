// Package cli wires the meteorites commands: serve, compile, token and config.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags
var Version = "dev"

var (
	cfgFile string
	verbose bool
	// readErr is a config file that exists but could not be read
	readErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "meteorites",
	Short: "Meteorites API - read-only HTTP API over the NASA meteorite landings catalog",
	Long: `Meteorites serves the NASA Meteorite Landings catalog over HTTP.

The dataset is loaded once at startup from a JSON file, a SQLite table or an
S3 object, indexed in memory and served read-only: dataset statistics, random
samples, lookups by id or name and filtered search.

Use 'meteorites compile' to turn a NASA CSV export into a dataset.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "meteorites %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	case errors.As(err, &notFound) && cfgFile == "":
	default:
		readErr = fmt.Errorf("failed to read config file: %w", err)
	}
}

// loadConfig merges defaults, the config file, METEORITES_* env vars and bound flags
func loadConfig() (*config.Config, error) {
	if readErr != nil {
		return nil, readErr
	}
	return config.Load(viper.GetViper())
}
