package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/config"
	logpkg "github.com/kailas-cloud/resumatch/internal/logger"
)

const appName = "resumatch"

var (
	// Used for flags.
	envName  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:          appName,
		Short:        "resumatch scores resumes against job descriptions",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", config.GetEnv(),
		"config environment, reads config/<env>.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"overrides logging.level from the config file")
}

// loadRuntime reads the config for the selected environment and builds a logger.
func loadRuntime() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envName)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logpkg.NewLogger(envName, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}
