package cmd

import (
	"context"

	"device-sync/core/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	preserveDeletes bool
	reportCompare   bool
	deleteIDs       []int
)

// compareCmd compares a category against the project without changing it.
var compareCmd = &cobra.Command{
	Use:   "compare <category>",
	Short: "Compare a device category against the project",
	Long: `Compare the device list of a category with the constant table in the project.

Every record is reported as synchronized, mismatched, new or to delete. Ids present
only in the project are reported as to delete.

Examples:
  # Report differences
  compare Valves

  # Preview which records a sync would remove
  compare Valves --delete 4,7 --preserve`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&preserveDeletes, "preserve", false, "Keep records flagged with --delete as to delete instead of new")
	compareCmd.Flags().BoolVar(&reportCompare, "report", false, "Upload the comparison to storage")
	compareCmd.Flags().IntSliceVar(&deleteIDs, "delete", nil, "Flag record ids for deletion before comparing")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	category := args[0]

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	if err := s.markAll(category, deleteIDs); err != nil {
		return err
	}

	diff, err := s.orch.Compare(ctx, category, preserveDeletes)
	if err != nil {
		return err
	}

	printDiff(s.log, diff)
	if reportCompare {
		s.upload(ctx, category, "compare", diff)
	}
	return nil
}

// printDiff prints a comparison using the logger.
func printDiff(l *zap.Logger, diff *model.DiffResult) {
	l.Info("Comparison report",
		zap.Int("records", len(diff.Records)),
		zap.Int("synchronized", diff.Matched),
		zap.Int("mismatched", diff.Mismatched),
		zap.Int("new", diff.New),
		zap.Int("to_delete", diff.Orphaned),
		zap.Bool("all_match", diff.AllMatch),
	)

	// Show sample of diverged records (max 10 for logger)
	const maxShow = 10
	shown, diverged := 0, 0
	for _, rec := range diff.Records {
		if !rec.Status().Diverged() {
			continue
		}
		diverged++
		if shown == maxShow {
			continue
		}
		shown++
		l.Info("Diverged record",
			zap.Int("id", rec.ID()),
			zap.String("tag", rec.DesiredTag()),
			zap.Stringer("status", rec.Status()),
		)
	}
	if diverged > shown {
		l.Info("Additional records not shown", zap.Int("count", diverged-shown))
	}
}
