package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"device-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	yesConfirm bool
	dryRunSync bool
	reportSync bool
	syncDelete []int
)

// syncCmd converges the project to a category's device list.
var syncCmd = &cobra.Command{
	Use:   "sync <category>",
	Short: "Synchronize a device category into the project",
	Long: `Synchronize a device category into the project in five phases:
sizing constant, constant table, compile, array comments and verification.

Constants whose id is not in the device list are deleted from the project.

Examples:
  # Compare first, then sync after confirmation
  sync Valves

  # Show planned constant changes only
  sync Valves --dry-run

  # Remove two records and sync without prompting
  sync Valves --delete 4,7 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the synchronization (non-interactive)")
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Print the planned constant changes and exit")
	syncCmd.Flags().BoolVar(&reportSync, "report", false, "Upload the phase outcome to storage")
	syncCmd.Flags().IntSliceVar(&syncDelete, "delete", nil, "Flag record ids for deletion before synchronizing")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	category := args[0]

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	if err := s.markAll(category, syncDelete); err != nil {
		return err
	}

	diff, err := s.orch.Compare(ctx, category, true)
	if err != nil {
		return err
	}
	printDiff(s.log, diff)

	if dryRunSync {
		plan, err := s.orch.Plan(ctx, category)
		if err != nil {
			return err
		}
		printPlan(s.log, plan)
		s.log.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if diff.AllMatch {
		s.log.Info("Category already synchronized, running sync to refresh sizing and comments")
	}
	if !confirmSync() {
		s.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	out, err := s.orch.Synchronize(ctx, category)
	if err != nil {
		return err
	}

	s.log.Info("Synchronization outcome",
		zap.Bool("sizing", out.Sizing),
		zap.Bool("constants", out.Constants),
		zap.Bool("compile", out.Compile),
		zap.Int("compile_errors", out.CompileErrors),
		zap.Bool("comments", out.Comments),
		zap.Bool("verified", out.Verified),
		zap.Bool("overall", out.Overall),
		zap.Duration("duration", out.Duration),
	)
	if out.Diff != nil {
		printDiff(s.log, out.Diff)
	}
	if reportSync {
		s.upload(ctx, category, "sync", out)
	}

	if !out.Overall {
		return fmt.Errorf("synchronization of %s did not converge", out.Category)
	}
	return nil
}

// printPlan prints planned constant actions using the logger.
func printPlan(l *zap.Logger, plan *reconcile.ConstantPlan) {
	l.Info("Planned constant changes",
		zap.Int("deletes", plan.Summary.Deletes),
		zap.Int("renames", plan.Summary.Renames),
		zap.Int("creates", plan.Summary.Creates),
		zap.Int("unchanged", plan.Summary.Unchanged),
	)
	for _, a := range plan.Actions {
		l.Info("Planned action",
			zap.String("type", string(a.Type)),
			zap.Int("id", a.ID),
			zap.String("from", a.From),
			zap.String("to", a.To),
			zap.String("reason", a.Reason),
		)
	}
}

// confirmSync prompts the user for confirmation or uses --yes flag.
func confirmSync() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to write these changes to the project: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
