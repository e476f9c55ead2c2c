package domain

import "testing"

func TestGenerateHierarchy(t *testing.T) {
	people, err := GenerateHierarchy(7, 2)
	if err != nil {
		t.Fatalf("GenerateHierarchy failed: %v", err)
	}
	if len(people) != 7 {
		t.Fatalf("expected 7 people, got %d", len(people))
	}

	if !people[0].IsRoot() {
		t.Error("expected person 0 to be the root")
	}

	wantManagers := []int{-1, 0, 0, 1, 1, 2, 2}
	for i, p := range people {
		if p.ManagerIndex != wantManagers[i] {
			t.Errorf("person %d: expected manager %d, got %d", i, wantManagers[i], p.ManagerIndex)
		}
		if !p.IsRoot() && p.ManagerName != people[p.ManagerIndex].CommonName {
			t.Errorf("person %d: manager name %q does not match", i, p.ManagerName)
		}
	}

	if people[0].Title != "Chief Executive Officer" {
		t.Errorf("unexpected root title %q", people[0].Title)
	}
	if people[1].Title != "Vice President" {
		t.Errorf("unexpected title for person 1: %q", people[1].Title)
	}
	if people[6].Title != leafTitle {
		t.Errorf("expected leaf title for person 6, got %q", people[6].Title)
	}
}

func TestGenerateHierarchy_UniqueNames(t *testing.T) {
	people, err := GenerateHierarchy(500, 5)
	if err != nil {
		t.Fatalf("GenerateHierarchy failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, p := range people {
		if seen[p.CommonName] {
			t.Fatalf("duplicate common name %q", p.CommonName)
		}
		seen[p.CommonName] = true
	}
}

func TestGenerateHierarchy_Invalid(t *testing.T) {
	if _, err := GenerateHierarchy(0, 3); err == nil {
		t.Error("expected error for empty hierarchy")
	}
	if _, err := GenerateHierarchy(3, 0); err == nil {
		t.Error("expected error for zero fanout")
	}
}
