package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration tools",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config file without starting the bot",
	RunE:  configCheck,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
}

func configCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	errs := cfg.Validate()
	if len(errs) == 0 {
		color.Green("Configuration looks good.")
		return nil
	}

	for _, e := range errs {
		color.Red("  %s", e.Error())
	}
	return fmt.Errorf("%d configuration problem(s) found", len(errs))
}
