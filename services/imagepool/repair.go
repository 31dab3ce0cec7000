package imagepool

// repairState reconciles a pool against the current catalog before a draw:
// ids the catalog no longer knows are stripped, duplicates collapse, ids
// sitting in both lists stay used, and catalog ids missing from both lists
// re-enter available (shuffled back in). Returns whether anything changed so
// the caller can log the self-heal.
func repairState(state *PoolState, catalogIDs []string) bool {
	changed := false

	catalogSet := make(map[string]struct{}, len(catalogIDs))
	for _, id := range catalogIDs {
		catalogSet[id] = struct{}{}
	}

	inUsed := make(map[string]struct{}, len(state.Used))
	used := make([]string, 0, len(state.Used))
	for _, id := range state.Used {
		if _, known := catalogSet[id]; !known {
			changed = true
			continue
		}
		if _, dup := inUsed[id]; dup {
			changed = true
			continue
		}
		inUsed[id] = struct{}{}
		used = append(used, id)
	}

	inAvailable := make(map[string]struct{}, len(state.Available))
	available := make([]string, 0, len(state.Available))
	for _, id := range state.Available {
		if _, known := catalogSet[id]; !known {
			changed = true
			continue
		}
		if _, dup := inAvailable[id]; dup {
			changed = true
			continue
		}
		if _, conflicted := inUsed[id]; conflicted {
			// Present in both lists: the player has seen it, used wins
			changed = true
			continue
		}
		inAvailable[id] = struct{}{}
		available = append(available, id)
	}

	reshuffle := false
	for _, id := range catalogIDs {
		if _, ok := inUsed[id]; ok {
			continue
		}
		if _, ok := inAvailable[id]; ok {
			continue
		}
		// Catalog grew (or a partial write lost the id): back into rotation
		available = append(available, id)
		changed = true
		reshuffle = true
	}
	if reshuffle {
		shuffleInPlace(available)
	}

	state.Available = available
	state.Used = used
	if state.TotalImages != len(catalogIDs) {
		state.TotalImages = len(catalogIDs)
		changed = true
	}
	return changed
}
