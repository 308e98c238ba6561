package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"trade-planner/internal/cli"
	"trade-planner/internal/config"
	"trade-planner/internal/logging"
)

func main() {
	// Optional; environment wins over .env values already set.
	_ = godotenv.Load()

	cfg, err := config.Load(config.DefaultConfigDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	logger := logging.NewLoggerWithConfig(logCfg)

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
