package reconcile

import (
	"device-sync/core/model"
)

// Reconcile classifies desired records against the ids observed in the target.
//
// Each desired record is looked up by id: equal tags give Synchronized, different
// tags give Mismatched(observed), and an absent id gives New. A record already
// flagged ToDelete keeps its flag whether or not the target still holds its id,
// and consumes that id so it is reported once. Observed ids left unconsumed become
// ToDelete ghosts appended after the desired records, in export order.
//
// The desired records are mutated in place. Reconcile performs no I/O; actual must
// be a fresh export.
func Reconcile(desired []model.Device, actual []Observed) *model.DiffResult {
	idx := newObservedIndex(actual)

	result := &model.DiffResult{
		Records: make([]model.Device, 0, len(desired)+len(idx.order)),
	}

	for _, rec := range desired {
		observed, ok := idx.take(rec.ID())
		switch {
		case rec.Status().Kind == model.StatusToDelete:
		case ok && observed == rec.DesiredTag():
			rec.SetStatus(model.Synchronized())
		case ok:
			rec.SetStatus(model.Mismatched(observed))
		default:
			rec.SetStatus(model.New())
		}
		result.Records = append(result.Records, rec)
	}

	for _, o := range idx.leftovers() {
		result.Records = append(result.Records, model.NewGhost(o.ID, o.Tag))
	}

	tally(result)
	return result
}

// tally fills the counters and AllMatch from the record statuses.
func tally(result *model.DiffResult) {
	result.AllMatch = true
	for _, rec := range result.Records {
		st := rec.Status()
		switch st.Kind {
		case model.StatusSynchronized:
			result.Matched++
		case model.StatusMismatched:
			result.Mismatched++
		case model.StatusNew:
			result.New++
		case model.StatusToDelete:
			result.Orphaned++
		}
		if st.Diverged() {
			result.AllMatch = false
		}
	}
}

// ResetStatuses puts every record back to Pending.
func ResetStatuses(records []model.Device) {
	for _, rec := range records {
		rec.SetStatus(model.Pending())
	}
}
