// Package cmd implements the parkrl command line interface
package cmd

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/parkrl/config"
	"github.com/samuelfneumann/parkrl/logging"
)

var configPath string

// GetRootCommand returns the root command with all subcommands added
func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "parkrl",
		Short:         "Train and evaluate car parking agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Configuration file (JSON or YAML)")

	rootCommand.AddCommand(RunCommand())
	rootCommand.AddCommand(RenderCommand())
	rootCommand.AddCommand(ReportCommand())
	return rootCommand
}

// load loads the configuration and builds the logger it describes,
// writing to w
func load(w io.Writer) (config.Config, zerolog.Logger, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}

	logger := logging.New(w, c.Log.Level, c.Log.Pretty)
	logger.Debug().Str("config", configPath).Msg("configuration loaded")
	return c, logger, nil
}
