package domain

// DeriveContacts projects companies with both a POC name and a contact
// number into contacts, keeping the first occurrence of each phone in input
// order. Later duplicates are dropped silently.
func DeriveContacts(companies []Company) []Contact {
	contacts := make([]Contact, 0, len(companies))
	seen := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		if c.ContactNumber == "" || c.POCName == "" {
			continue
		}
		if _, dup := seen[c.ContactNumber]; dup {
			continue
		}
		seen[c.ContactNumber] = struct{}{}
		contacts = append(contacts, Contact{
			ID:    c.ID,
			Name:  c.POCName,
			Phone: c.ContactNumber,
		})
	}
	return contacts
}
