package domain

import (
	"encoding/json"
	"testing"
)

func TestNewManagerOfEdge(t *testing.T) {
	edge := NewManagerOfEdge("S-1-5-21-1-2-3-1000", "S-1-5-21-1-2-3-1001")

	if edge.Kind != KindManagerOf {
		t.Errorf("expected kind %s, got %s", KindManagerOf, edge.Kind)
	}
	if edge.Start.Value != "S-1-5-21-1-2-3-1000" || edge.Start.MatchBy != MatchByID {
		t.Errorf("unexpected start endpoint: %+v", edge.Start)
	}
	if edge.End.Value != "S-1-5-21-1-2-3-1001" || edge.End.MatchBy != MatchByID {
		t.Errorf("unexpected end endpoint: %+v", edge.End)
	}
}

func TestNewGraphDocument_EmptyArrays(t *testing.T) {
	doc := NewGraphDocument(nil)

	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"metadata":{"source_kind":"ManagerOf"},"graph":{"nodes":[],"edges":[]}}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}
