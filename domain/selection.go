package domain

// Selection is the ordered set of phones chosen as recipients. Order is the
// order phones were added, which is also the order dispatch reports follow.
type Selection []string

// Contains reports whether phone is selected
func (s Selection) Contains(phone string) bool {
	for _, p := range s {
		if p == phone {
			return true
		}
	}
	return false
}

// Toggle adds phone when absent and removes it when present
func (s Selection) Toggle(phone string) Selection {
	if s.Contains(phone) {
		out := make(Selection, 0, len(s))
		for _, p := range s {
			if p != phone {
				out = append(out, p)
			}
		}
		return out
	}
	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return append(out, phone)
}

// ToggleAll clears the selection when its size equals the displayed contact
// count, and selects every displayed phone otherwise.
func (s Selection) ToggleAll(displayed []Contact) Selection {
	if len(s) == len(displayed) {
		return Selection{}
	}
	out := make(Selection, 0, len(displayed))
	for _, c := range displayed {
		out = append(out, c.Phone)
	}
	return out
}

// AllSelected mirrors the select-all checkbox state
func (s Selection) AllSelected(displayed []Contact) bool {
	return len(displayed) > 0 && len(s) == len(displayed)
}

// SelectionState is the per-session contact screen state
type SelectionState struct {
	Displayed []Contact `json:"displayed"`
	Selected  Selection `json:"selected"`
}
