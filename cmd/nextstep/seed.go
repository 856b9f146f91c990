package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/nextstep/internal/config"
	"github.com/jonathan/nextstep/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data into the database",
	Long: `Creates accounts, resumes, dashboards and job listings from a JSON fixture.
Without --file the bundled demo fixture is used. Existing accounts (by email)
and jobs (by title and company) are left untouched.`,
	RunE: runSeed,
}

var validateSeedCmd = &cobra.Command{
	Use:   "validate-seed",
	Short: "Validate a seed fixture without touching the database",
	RunE:  runValidateSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to seed fixture JSON (default: bundled demo data)")

	validateSeedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to seed fixture JSON (required)")
	if err := validateSeedCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(validateSeedCmd)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Demo()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return seed.Parse(content)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	fixture, err := loadFixture(seedFile)
	if err != nil {
		return err
	}
	levels, err := cfg.LevelTable()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	database, err := openDatabase(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	seeder := seed.NewSeeder(seed.NewPostgresStore(database), passwords, levels, logger)
	report, err := seeder.Run(cmd.Context(), fixture)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", report)
	return err
}

func runValidateSeed(cmd *cobra.Command, _ []string) error {
	fixture, err := loadFixture(seedFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %d users, %d jobs\n", len(fixture.Users), len(fixture.Jobs))
	return nil
}
