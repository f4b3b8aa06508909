// Package sync implements the Sync Orchestrator for device categories.
//
// Synchronize drives five phases against the target repository, strictly in order:
//  1. Sizing: write the desired sizing constant when it differs. Failure aborts the run.
//  2. Constants: delete ids absent from the desired set, rename or create the rest,
//     then write each record's description as the constant comment (best-effort).
//  3. Compile: compile the category block. Failure skips phase 4.
//  4. Comments: export the block, patch one comment per array index, import it back.
//  5. Verify: list the constant table again and reconcile.
//
// Each phase turns its failure into a boolean on PhaseOutcome plus a status message.
// Completed phases are never rolled back. Records flagged with MarkForDeletion are
// excluded from the desired set, so phase 2 removes them from the target.
//
// Sizing values read from the target are cached per category (SizingCache) and
// replaced as soon as phase 1 writes a new value.
//
// # HTTP Endpoints
//
//   - GET  /devices                              : configured categories
//   - GET  /devices/status, /devices/events      : busy flag, status messages (SSE)
//   - POST /devices/:category/sync               : run Synchronize
//   - GET  /devices/:category/compare?preserve=1 : run Compare
//   - GET  /devices/:category/plan               : constant changes the next sync makes
//   - GET  /devices/:category/view               : last comparison
//   - GET  /devices/:category/sizing             : sizing constant in the target
//   - POST /devices/:category/records/:id/delete : MarkForDeletion
package sync
