package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/umbra/akane/pkg/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the extension, tables and seed data",
	RunE:  dbInit,
}

var dbDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every bot table",
	RunE:  dbDrop,
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbDropCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is not configured")
	}
	return store.NewWithConfig(cmd.Context(), store.Config{ConnString: cfg.Database.URL})
}

func dbInit(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	steps := store.Migrations()
	bar := progressbar.NewOptions(len(steps),
		progressbar.OptionSetDescription("initialising"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	err = st.Init(cmd.Context(), func(name string) {
		bar.Describe(name)
		bar.Add(1)
	})
	if err != nil {
		return err
	}
	bar.Finish()

	color.Green("Database initialised, %d steps applied.", len(steps))
	return nil
}

func dbDrop(cmd *cobra.Command, args []string) error {
	color.Red("This drops every bot table and all their data.")
	fmt.Print("Type 'yes' to continue: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DropAll(cmd.Context()); err != nil {
		return err
	}
	color.Green("All tables dropped.")
	return nil
}
