package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Creates every table and index that does not exist yet. Safe to run repeatedly.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	database, err := openDatabase(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
	return nil
}
