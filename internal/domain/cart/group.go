package cart

// Group partitions lines by store, keeping stores in first-seen order. Lines
// that are not ACTIVE are forced unselected. Stores without lines never
// appear in the result.
func Group(lines []Line) []StoreGroup {
	index := make(map[string]int)
	groups := make([]StoreGroup, 0)

	for _, l := range lines {
		if !l.Eligible() {
			l.IsSelected = false
		}
		i, ok := index[l.StoreID]
		if !ok {
			i = len(groups)
			index[l.StoreID] = i
			groups = append(groups, StoreGroup{StoreID: l.StoreID, StoreName: l.StoreName})
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}

	for i := range groups {
		g := &groups[i]
		g.IsAllSelected = allEligibleSelected(g.Lines)
		g.Totals = Aggregate(countedLines(g.Lines))
	}
	return groups
}

// BuildView groups lines and derives the cart-wide aggregates.
func BuildView(lines []Line) View {
	groups := Group(lines)
	v := View{Groups: groups}
	var counted []Line
	for _, g := range groups {
		for _, l := range g.Lines {
			if !l.Eligible() {
				continue
			}
			v.EligibleCount++
			if l.IsSelected {
				v.SelectedCount++
				counted = append(counted, l)
			}
		}
	}
	v.Totals = Aggregate(counted)
	v.AllSelected = v.EligibleCount > 0 && v.SelectedCount == v.EligibleCount
	return v
}

// allEligibleSelected is true iff at least one ACTIVE line exists and every
// ACTIVE line is selected.
func allEligibleSelected(lines []Line) bool {
	eligible := 0
	for _, l := range lines {
		if !l.Eligible() {
			continue
		}
		eligible++
		if !l.IsSelected {
			return false
		}
	}
	return eligible > 0
}
