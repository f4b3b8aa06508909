package model

// DiffResult is the outcome of one reconciliation run over a category.
type DiffResult struct {
	Matched    int `json:"matched"`
	Mismatched int `json:"mismatched"`
	New        int `json:"new"`
	Orphaned   int `json:"orphaned"`
	// Records holds the desired records in input order followed by ToDelete ghosts.
	Records  []Device `json:"records"`
	AllMatch bool     `json:"all_match"`
}

// ByID returns the record with the given id, preferring desired records over ghosts.
func (d *DiffResult) ByID(id int) (Device, bool) {
	for _, r := range d.Records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}
