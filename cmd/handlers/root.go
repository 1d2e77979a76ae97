package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/config"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contentpipe",
		Short: "Contentpipe generates fact-checked, compliance-scored articles",
		Long: `Contentpipe runs a multi-stage content pipeline: it researches a
topic, validates the gathered facts, writes an article bound to the
approved facts, scores the draft for compliance, and stores the result
per tenant with full version lineage.

Examples:
  contentpipe generate "Electric vehicle charging at home" --tenant dealer-nl-001
  contentpipe rewrite 5f1c... --tenant dealer-nl-001 --notes "shorten the intro"
  contentpipe article list --tenant dealer-nl-001`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .contentpipe.yaml)")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewRewriteCmd())
	rootCmd.AddCommand(NewArticleCmd())
	rootCmd.AddCommand(NewStatsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.App.LogLevel != "" {
		logger.InitWithLevel(cfg.App.LogLevel)
	} else {
		logger.Init()
	}
}
