package domain

import (
	"errors"
	"fmt"
)

// Person is one member of a generated lab hierarchy.
type Person struct {
	CommonName   string
	AccountName  string
	Title        string
	ManagerIndex int // index into the generated slice, -1 for the root
	ManagerName  string
}

// IsRoot reports whether the person has no manager.
func (p Person) IsRoot() bool {
	return p.ManagerIndex < 0
}

var (
	givenNames = []string{
		"Ada", "Brook", "Cyrus", "Dana", "Emil", "Farah", "Gale", "Hugo",
		"Iris", "Jonah", "Kira", "Lior", "Mara", "Nico", "Odile", "Pavel",
	}
	familyNames = []string{
		"Abbot", "Brenner", "Castell", "Drummond", "Esposito", "Falk",
		"Gruber", "Hale", "Ivers", "Jansen", "Kowal", "Lindqvist",
	}
	titlesByDepth = []string{
		"Chief Executive Officer", "Vice President", "Director",
		"Manager", "Team Lead",
	}
)

const leafTitle = "Engineer"

// GenerateHierarchy builds a deterministic management tree of n people where
// every manager has at most fanout direct reports. Person 0 is the root and
// person i reports to person (i-1)/fanout.
func GenerateHierarchy(n, fanout int) ([]Person, error) {
	if n < 1 {
		return nil, errors.New("hierarchy needs at least one person")
	}
	if fanout < 1 {
		return nil, errors.New("fanout must be at least 1")
	}

	people := make([]Person, n)
	depth := make([]int, n)
	for i := range n {
		given := givenNames[i%len(givenNames)]
		family := familyNames[(i/len(givenNames))%len(familyNames)]
		cn := fmt.Sprintf("%s %s %03d", given, family, i)

		p := Person{
			CommonName:   cn,
			AccountName:  fmt.Sprintf("lab.%03d", i),
			ManagerIndex: -1,
		}
		if i > 0 {
			p.ManagerIndex = (i - 1) / fanout
			p.ManagerName = people[p.ManagerIndex].CommonName
			depth[i] = depth[p.ManagerIndex] + 1
		}
		people[i] = p
	}

	// Titles depend on whether a person ended up managing anyone.
	hasReports := make([]bool, n)
	for _, p := range people {
		if !p.IsRoot() {
			hasReports[p.ManagerIndex] = true
		}
	}
	for i := range people {
		switch {
		case !hasReports[i] && i > 0:
			people[i].Title = leafTitle
		case depth[i] < len(titlesByDepth):
			people[i].Title = titlesByDepth[depth[i]]
		default:
			people[i].Title = titlesByDepth[len(titlesByDepth)-1]
		}
	}

	return people, nil
}
