package domain

// Record is a person entry read from the directory, reduced to the three
// attributes the export needs. Records are built once by the directory
// adapter and never modified afterwards.
type Record struct {
	DN      string // distinguishedName of the entry
	SID     []byte // raw objectSid, nil when the attribute is absent
	Manager string // distinguishedName of the manager entry, empty when unset
}

// HasManager reports whether the record carries a manager reference.
func (r Record) HasManager() bool {
	return r.Manager != ""
}
