package llmsync

import "sort"

// Plan partitions every inventory key into the action the pass must
// take. Keys in neither slice are unchanged. The three slices are
// disjoint and sorted; callers must not attach meaning to the order
// beyond determinism.
type Plan struct {
	// Create holds keys present only locally.
	Create []string

	// Update holds keys present on both sides where the local file is
	// strictly newer than the remote published time.
	Update []string

	// Delete holds keys present only remotely.
	Delete []string
}

// Empty reports whether the plan requires no remote writes.
func (p Plan) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Total returns the number of keys requiring action.
func (p Plan) Total() int {
	return len(p.Create) + len(p.Update) + len(p.Delete)
}

// Reconcile classifies every key of the two inventories. It is a pure
// function: no I/O, identical inputs give identical plans regardless of
// map iteration order.
//
// Staleness uses strict comparison only. Equal timestamps never trigger
// an update, so repeated passes over unchanged files stay write-free.
func Reconcile(local LocalInventory, remote RemoteInventory) Plan {
	var plan Plan

	for key, lr := range local {
		rr, exists := remote[key]
		if !exists {
			plan.Create = append(plan.Create, key)
			continue
		}

		if lr.ModifiedAt.After(rr.Published) {
			plan.Update = append(plan.Update, key)
		}
	}

	for key := range remote {
		if _, exists := local[key]; !exists {
			plan.Delete = append(plan.Delete, key)
		}
	}

	sort.Strings(plan.Create)
	sort.Strings(plan.Update)
	sort.Strings(plan.Delete)

	return plan
}
