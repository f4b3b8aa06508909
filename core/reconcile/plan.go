package reconcile

import (
	"fmt"

	"device-sync/core/model"
	"device-sync/core/target"
)

// ActionType is the kind of change planned for a target constant.
type ActionType string

const (
	ActionDelete ActionType = "delete"
	ActionRename ActionType = "rename"
	ActionCreate ActionType = "create"
)

// Action is one planned change to a constant table.
type Action struct {
	Type ActionType `json:"type"`
	ID   int        `json:"id"`
	// From is the current name in the target. Empty for creates.
	From string `json:"from,omitempty"`
	// To is the desired name. Empty for deletes.
	To     string `json:"to,omitempty"`
	Reason string `json:"reason"`
}

// PlanSummary counts the planned actions.
type PlanSummary struct {
	Deletes   int `json:"deletes"`
	Renames   int `json:"renames"`
	Creates   int `json:"creates"`
	Unchanged int `json:"unchanged"`
}

// ConstantPlan is the ordered list of changes that converges a constant table
// to the desired records. Deletes come first so freed names can be reused, and no
// rename or create targets a name another constant still holds at that point.
type ConstantPlan struct {
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanConstants plans the constant-table changes for desired against the
// listed constants. It does not execute anything.
//
// An existing constant is deleted when its id is not desired, or when an earlier
// constant already holds the same id. Every desired record is then renamed when
// its name differs, created when its id is absent, or left unchanged. Renames and
// creates are ordered so each target name is free when applied; names swapped
// between ids go through a temporary name. Records flagged ToDelete must be
// filtered out by the caller.
func PlanConstants(desired []model.Device, existing []target.Constant) *ConstantPlan {
	wanted := make(map[int]bool, len(desired))
	for _, rec := range desired {
		wanted[rec.ID()] = true
	}

	plan := &ConstantPlan{}
	kept := make(map[int]string, len(existing))
	for _, c := range existing {
		_, dup := kept[c.ID]
		switch {
		case dup:
			plan.add(Action{Type: ActionDelete, ID: c.ID, From: c.Name, Reason: "duplicate id"})
		case !wanted[c.ID]:
			plan.add(Action{Type: ActionDelete, ID: c.ID, From: c.Name, Reason: "id not in device list"})
		default:
			kept[c.ID] = c.Name
		}
	}

	var pending []Action
	for _, rec := range desired {
		name, ok := kept[rec.ID()]
		switch {
		case !ok:
			pending = append(pending, Action{Type: ActionCreate, ID: rec.ID(), To: rec.DesiredTag(), Reason: "id missing in target"})
		case name != rec.DesiredTag():
			pending = append(pending, Action{Type: ActionRename, ID: rec.ID(), From: name, To: rec.DesiredTag(), Reason: "name differs"})
		default:
			plan.Summary.Unchanged++
		}
	}
	plan.order(pending, kept)
	return plan
}

// order appends renames and creates in passes, each pass taking the actions
// whose target name is free. When every remaining action is blocked, a rename
// holding a name another action wants moves to a temporary name first.
func (p *ConstantPlan) order(pending []Action, kept map[int]string) {
	holder := make(map[string]int, len(kept))
	for id, name := range kept {
		holder[name] = id
	}
	reserved := make(map[string]bool, len(pending))
	for _, a := range pending {
		reserved[a.To] = true
	}

	for len(pending) > 0 {
		var blocked []Action
		for _, a := range pending {
			if _, taken := holder[a.To]; taken {
				blocked = append(blocked, a)
				continue
			}
			if a.Type == ActionRename {
				delete(holder, a.From)
			}
			holder[a.To] = a.ID
			p.add(a)
		}

		if len(blocked) == len(pending) {
			i := blocker(blocked)
			if i < 0 {
				// Names held by unchanged constants; the target rejects these.
				for _, a := range blocked {
					p.add(a)
				}
				return
			}
			a := &blocked[i]
			tmp := tempName(a.From, a.ID, holder, reserved)
			p.add(Action{Type: ActionRename, ID: a.ID, From: a.From, To: tmp, Reason: "frees name " + a.From})
			delete(holder, a.From)
			holder[tmp] = a.ID
			a.From = tmp
		}
		pending = blocked
	}
}

// blocker returns the index of a rename whose current name another blocked
// action wants, or -1.
func blocker(blocked []Action) int {
	wanted := make(map[string]bool, len(blocked))
	for _, a := range blocked {
		wanted[a.To] = true
	}
	for i, a := range blocked {
		if a.Type == ActionRename && wanted[a.From] {
			return i
		}
	}
	return -1
}

func tempName(name string, id int, holder map[string]int, reserved map[string]bool) string {
	tmp := fmt.Sprintf("%s_%d_TMP", name, id)
	for {
		if _, taken := holder[tmp]; !taken && !reserved[tmp] {
			return tmp
		}
		tmp += "_"
	}
}

func (p *ConstantPlan) add(a Action) {
	p.Actions = append(p.Actions, a)
	switch a.Type {
	case ActionDelete:
		p.Summary.Deletes++
	case ActionRename:
		p.Summary.Renames++
	case ActionCreate:
		p.Summary.Creates++
	}
}
