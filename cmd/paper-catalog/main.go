// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-catalog CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-catalog/internal/secrets"
	"github.com/pdiddy/paper-catalog/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, then the secret value for key,
// then empty.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-catalog CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-catalog",
	Short: "A self-enriching catalog of scientific publications",
	Long: `paper-catalog serves a browsable catalog of scientific publications and
enriches it in the background: it pages through arXiv search results,
downloads new PDFs, asks a chat-completion model for bibliographic
metadata, and persists normalized records to SQLite.

Run "serve" for the web app, "ingest" for a one-shot synchronous
collection run, or "export" to dump the catalog to YAML or JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; absence is not an error.
		_ = godotenv.Load()

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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-catalog.yaml or ~/.config/paper-catalog/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-catalog")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-catalog"))
		}
	}

	viper.SetDefault("catalog.timeout", 30*time.Second)
	viper.SetDefault("catalog.user_agent", "paper-catalog/0.1")
	viper.SetDefault("catalog.request_interval", 3*time.Second)
	viper.SetDefault("extraction.model", "gpt-4")
	viper.SetDefault("extraction.temperature", 0.4)
	viper.SetDefault("extraction.max_pages", 5)
	viper.SetDefault("extraction.max_prompt_chars", 8000)
	viper.SetDefault("ingest.page_size", 25)
	viper.SetDefault("ingest.max_attempts", 10)
	viper.SetDefault("ingest.download_timeout", 20*time.Second)
	viper.SetDefault("ingest.queue_size", 4)
	viper.SetDefault("store.path", "catalog.db")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.page_size", 10)
	viper.SetDefault("server.list_limit", 20)

	viper.SetEnvPrefix("PAPER_CATALOG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the application configuration from viper, the
// environment, and loaded secrets. The OpenAI key resolves from the
// config file, then OPENAI_API_KEY, then .secrets/openai-api-key.
func loadConfig() types.AppConfig {
	apiKey := viper.GetString("extraction.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	apiKey = secretDefault("openai-api-key", apiKey)

	return types.AppConfig{
		Catalog: types.CatalogConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("catalog.timeout"),
				UserAgent: viper.GetString("catalog.user_agent"),
			},
			BaseURL:         viper.GetString("catalog.base_url"),
			RequestInterval: viper.GetDuration("catalog.request_interval"),
		},
		Extraction: types.ExtractionConfig{
			AIConfig: types.AIConfig{
				BaseURL:     viper.GetString("extraction.base_url"),
				Model:       viper.GetString("extraction.model"),
				APIKey:      apiKey,
				Temperature: viper.GetFloat64("extraction.temperature"),
			},
			MaxPages:       viper.GetInt("extraction.max_pages"),
			MaxPromptChars: viper.GetInt("extraction.max_prompt_chars"),
		},
		Ingest: types.IngestConfig{
			PageSize:        viper.GetInt("ingest.page_size"),
			MaxAttempts:     viper.GetInt("ingest.max_attempts"),
			DownloadTimeout: viper.GetDuration("ingest.download_timeout"),
			QueueSize:       viper.GetInt("ingest.queue_size"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Server: types.ServerConfig{
			Addr:      viper.GetString("server.addr"),
			PageSize:  viper.GetInt("server.page_size"),
			ListLimit: viper.GetInt("server.list_limit"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
