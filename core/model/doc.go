// Package model holds the value types shared by the reconciliation core.
//
// # Devices
//
// A Device is any category-specific record shape (valve, motor, sensor, ...) that
// exposes the capability set the engine and orchestrator work with: a numeric id,
// the authored tag and description, the tag and comment last written to the target,
// and a reconciliation Status. Record is the base implementation that every shape embeds.
//
// # Lifecycle
//
// Records are created by the sheet loader in StatusPending. The reconciliation engine
// mutates their status in place and the orchestrator records the target tag and comment
// after a successful write. ToDelete ghosts are synthesized by the engine only and never
// flow back into the snapshot.
//
// # Categories
//
// CategoryConfig is the static, externally supplied description of one device category:
// where its rows come from and which target table, block and array it maps to.
package model
