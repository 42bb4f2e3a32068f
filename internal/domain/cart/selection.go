package cart

// SelectLine toggles selection on the line with lineID. It returns false when
// the line is missing or not ACTIVE, in which case lines are left untouched.
func SelectLine(lines []Line, lineID string) bool {
	for i := range lines {
		if lines[i].LineID != lineID {
			continue
		}
		if !lines[i].Eligible() {
			return false
		}
		lines[i].IsSelected = !lines[i].IsSelected
		return true
	}
	return false
}

// SelectStore sets selection on every ACTIVE line of storeID and returns how
// many lines it touched. Other lines of the store stay unselected.
func SelectStore(lines []Line, storeID string, value bool) int {
	n := 0
	for i := range lines {
		if lines[i].StoreID != storeID {
			continue
		}
		if !lines[i].Eligible() {
			lines[i].IsSelected = false
			continue
		}
		lines[i].IsSelected = value
		n++
	}
	return n
}

// SelectAll applies SelectStore to every store.
func SelectAll(lines []Line, value bool) int {
	n := 0
	for i := range lines {
		if !lines[i].Eligible() {
			lines[i].IsSelected = false
			continue
		}
		lines[i].IsSelected = value
		n++
	}
	return n
}
