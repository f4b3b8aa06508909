// Package snapshot holds the desired device state loaded from the sheet exports.
//
// A Snapshot maps each category to its desired records and sizing limit. The sheet
// loader builds one per load cycle and publishes it through Store.Publish, which
// replaces the previous snapshot atomically. Readers always see a whole snapshot.
//
// # Usage
//
//	store := snapshot.NewStore()
//	store.Publish(entries, limits)
//	records, err := store.GetDesiredRecords("Valves")
//	limit, err := store.GetSizingLimit("Valves")
package snapshot
