// Package reconcile classifies authored device records against the id->tag pairs
// materialized in the engineering target.
//
// # Algorithm
//
// Reconcile walks the desired records in order and consumes matching ids from the
// observed set:
//
//   - same id, same tag: Synchronized
//   - same id, different tag: Mismatched(observed tag)
//   - id absent: New, unless the record is already flagged ToDelete
//
// Observed ids that no desired record consumed are orphans. Each becomes a ghost
// record with status ToDelete appended after the desired records. The lookup runs
// desired->observed only, so the operation is not symmetric.
//
// # Determinism
//
// Desired order is preserved. Ghosts follow the order in which the target exported
// the pairs, so a stable export yields a stable result.
//
// # Planning
//
// PlanConstants turns the same inputs into the ordered create, rename and delete
// actions that converge a constant table. Deletes come first. Nothing is executed;
// the sync orchestrator applies the plan and `sync --dry-run` prints it.
//
// # Usage
//
//	pairs, _ := repo.ListConstants(ctx, cat.ConstantTable)
//	diff := reconcile.Reconcile(records, reconcile.FromConstants(pairs))
//	if !diff.AllMatch {
//	    // show diff.Records
//	}
package reconcile
