package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the XP threshold table",
	Long:  "Prints the minimum total XP for every level, using leveling.xp_increments from the config file when set.",
	RunE:  runLevels,
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}

func runLevels(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	table, err := cfg.LevelTable()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tMIN XP\tTO NEXT")
	thresholds := table.Thresholds()
	for i, floor := range thresholds {
		next := "max"
		if i+1 < len(thresholds) {
			next = humanize.Comma(int64(thresholds[i+1] - floor))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, humanize.Comma(int64(floor)), next)
	}
	return tw.Flush()
}
