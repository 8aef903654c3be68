// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the affiliate-research CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/affiliate-research/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide structured logger, configured in the root
// command's PersistentPreRunE.
var logger zerolog.Logger

// rootCmd is the base command for the affiliate-research CLI.
var rootCmd = &cobra.Command{
	Use:   "affiliate-research",
	Short: "Multi-source affiliate product research and scoring",
	Long: `affiliate-research aggregates product listings from commerce APIs (a retail
marketplace, a shopping-search engine, and a GraphQL product catalog),
normalizes them into a common record, and ranks them with a weighted
composite score to surface affiliate-marketing opportunities for a niche.

The research subcommand runs the full pipeline; session inspects saved
research sessions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file is optional; absence is not an error.
		_ = godotenv.Load()

		verbose, _ := cmd.Flags().GetBool("verbose")
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./affiliate-research.yaml or ~/.config/affiliate-research/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("affiliate-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "affiliate-research"))
		}
	}

	viper.SetDefault("http.timeout", 15*time.Second)
	viper.SetDefault("http.user_agent", "affiliate-research/"+version)
	viper.SetDefault("marketplace.region", "US")
	viper.SetDefault("shopping.region", "us")
	viper.SetDefault("catalog.shopper_ip", "127.0.0.1")
	viper.SetDefault("enrichment.region", "us")
	viper.SetDefault("enrichment.delay", 500*time.Millisecond)
	viper.SetDefault("sample.enabled", false)
	viper.SetDefault("sample.seed", 1)
	viper.SetDefault("sessions_dir", "sessions")

	viper.SetEnvPrefix("AFFILIATE_RESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// credential resolves a key from configuration first, then the secrets
// directory.
func credential(viperKey, secretName string) string {
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return loadedSecrets[secretName]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
