// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-assessor CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-assessor/internal/logging"
	"github.com/pdiddy/paper-assessor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// errReported marks an error whose message was already shown to the user.
var errReported = errors.New("reported")

var (
	// cfg is populated once by the root PersistentPreRunE.
	cfg types.Config

	logger = zap.NewNop()
)

// rootCmd is the base command for the paper-assessor CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-assessor",
	Short: "Assess whether a research paper is publishable",
	Long: `paper-assessor reads a research paper PDF, extracts its abstract, asks a
language model for search queries, retrieves related work from Google Scholar
and arXiv, and has the model compare the paper against the top references
before giving a final publishability assessment.

Credentials come from the environment, a .env file, or the .secrets/
directory: GROQ_API_KEY (or GEMINI_API_KEY) and SERPAPI_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		c, err := loadConfig(viper.GetViper(), secretsDir, os.Stderr)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-assessor.yaml or ~/.config/paper-assessor/paper-assessor.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of credential files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error, off")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// A missing .env is normal; the environment may already be set.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-assessor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-assessor"))
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
