package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/umbra/akane/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "launcher",
	Short: "Akane, a general purpose Discord bot",
	Long:  "Akane is a general purpose Discord bot: timezones, todos, Twitch alerts and other nice things.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(configPath)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}
