// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubharvest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubharvest/internal/secrets"
	"github.com/pdiddy/pubharvest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "pubharvest/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pubharvest CLI.
var rootCmd = &cobra.Command{
	Use:   "pubharvest",
	Short: "Harvest and classify PubMed literature records",
	Long: `pubharvest retrieves bibliographic records from PubMed and turns them into
a durable, categorized dataset. Each pipeline stage is a subcommand: search
discovers PMIDs, harvest fetches and normalizes records concurrently,
export partitions and renders the dataset, and index archives it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env values feed viper's environment lookup.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubharvest.yaml or ~/.config/pubharvest/config.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.PersistentFlags().String("email", "", "email sent with NCBI requests")
	rootCmd.PersistentFlags().String("api-key", "", "NCBI API key (raises the rate limit from 3 to 10 req/s)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubharvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubharvest"))
		}
	}

	viper.SetEnvPrefix("PUBHARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// entrezConfig resolves the shared NCBI settings: flag, then config file
// or environment, then .secrets/ fallback.
func entrezConfig(cmd *cobra.Command) types.EntrezConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = viper.GetString("email")
	}
	if email == "" {
		email = loadedSecrets["ncbi-email"]
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}
	if apiKey == "" {
		apiKey = loadedSecrets["ncbi-api-key"]
	}

	return types.EntrezConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Email:  email,
		APIKey: apiKey,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
