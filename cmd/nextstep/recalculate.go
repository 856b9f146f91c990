package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/gamification"
	"github.com/jonathan/nextstep/internal/ratings"
)

var recalculateEmail string

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rebuild a user's cached dashboard level and rating averages",
	Long: `Re-derives total XP and level from the user's achievements and the
employer and worker rating aggregates from the ratings they received.`,
	RunE: runRecalculate,
}

func init() {
	recalculateCmd.Flags().StringVarP(&recalculateEmail, "email", "e", "", "Email of the account to repair (required)")
	if err := recalculateCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	rootCmd.AddCommand(recalculateCmd)
}

func runRecalculate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	levels, err := cfg.LevelTable()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	database, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	user, err := database.GetUserByEmail(ctx, recalculateEmail)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account with email %s", recalculateEmail)
	}

	dashboards := gamification.NewService(gamification.NewPostgresStore(database), levels, logger)
	dashboard, err := dashboards.Recalculate(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to recalculate dashboard: %w", err)
	}

	profiles := ratings.NewService(ratings.NewPostgresStore(database), logger)
	profile, err := profiles.Recalculate(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to recalculate ratings: %w", err)
	}

	printRecalculated(cmd.OutOrStdout(), user.Email, dashboard, profile)
	return nil
}

func printRecalculated(w io.Writer, email string, d *db.Dashboard, p *db.Profile) {
	fmt.Fprintf(w, "%s\n", email)
	fmt.Fprintf(w, "  dashboard: %d XP, level %d\n", d.TotalXP, d.Level)
	if p == nil {
		return
	}
	fmt.Fprintf(w, "  employer rating: %s (%d)\n", formatAverage(p.EmployerRatingAvg), p.EmployerRatingCount)
	fmt.Fprintf(w, "  worker rating: %s (%d)\n", formatAverage(p.WorkerRatingAvg), p.WorkerRatingCount)
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return "none"
	}
	return fmt.Sprintf("%.1f", *avg)
}
