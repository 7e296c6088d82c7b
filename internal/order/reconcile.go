package order

// detailChanges is the row-level work needed to bring an order's persisted
// detail set in line with a submitted one.
type detailChanges struct {
	remove []int64 // product ids of persisted details absent from the submission
	update []Detail
	insert []Detail
}

// reconcileDetails diffs the persisted details against the submitted ones,
// keyed by product id: persisted-only rows are removed, matching rows are
// updated in place, submitted-only rows are inserted. Keeping matching rows
// instead of replacing the whole set avoids delete+reinsert churn on every
// update. Ordering follows the input slices.
func reconcileDetails(persisted, submitted []Detail) detailChanges {
	submittedByProduct := make(map[int64]struct{}, len(submitted))
	for _, d := range submitted {
		submittedByProduct[d.Product.ID] = struct{}{}
	}
	persistedByProduct := make(map[int64]struct{}, len(persisted))
	for _, d := range persisted {
		persistedByProduct[d.Product.ID] = struct{}{}
	}

	var changes detailChanges
	for _, d := range persisted {
		if _, ok := submittedByProduct[d.Product.ID]; !ok {
			changes.remove = append(changes.remove, d.Product.ID)
		}
	}
	for _, d := range submitted {
		if _, ok := persistedByProduct[d.Product.ID]; ok {
			changes.update = append(changes.update, d)
		} else {
			changes.insert = append(changes.insert, d)
		}
	}
	return changes
}
