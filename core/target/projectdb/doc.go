// Package projectdb implements target.Repository on a relational project database.
//
// It stands in for the live engineering target when working offline or in tests:
// tag tables and their constants live in plc_tag_tables and plc_constants, and
// data blocks keep their exported XML document in plc_blocks.
//
// Compile does not generate code. It parses the block document and counts
// structural problems (members without a data type, subelements addressed by a
// non-numeric path), which is enough to exercise the orchestrator's compile phase.
//
// # Usage
//
//	db, _ := database.Connect(cfg.Database)
//	repo, err := projectdb.New(db)
//	pairs, err := repo.ListConstants(ctx, "Valves")
package projectdb
