package domain

const (
	// KindManagerOf labels an edge from a manager to a direct report.
	KindManagerOf = "ManagerOf"

	// SourceKind tags every document produced by the exporter.
	SourceKind = "ManagerOf"

	// MatchByID tells the ingester to match an endpoint on the node object ID.
	MatchByID = "id"
)

// Endpoint identifies one side of an edge.
type Endpoint struct {
	Value   string `json:"value"`
	MatchBy string `json:"match_by"`
}

// Edge is a directed relationship between two security identifiers.
type Edge struct {
	Kind  string   `json:"kind"`
	Start Endpoint `json:"start"`
	End   Endpoint `json:"end"`
}

// NewManagerOfEdge builds the edge manager -> subordinate, both matched by ID.
func NewManagerOfEdge(managerSID, subordinateSID string) Edge {
	return Edge{
		Kind:  KindManagerOf,
		Start: Endpoint{Value: managerSID, MatchBy: MatchByID},
		End:   Endpoint{Value: subordinateSID, MatchBy: MatchByID},
	}
}

// Node is a graph node. The exporter never materializes nodes: every
// endpoint is an existing principal matched by ID, so Nodes stays empty.
type Node struct {
	ID    string   `json:"id"`
	Kinds []string `json:"kinds"`
}

// Metadata describes where a document came from.
type Metadata struct {
	SourceKind string `json:"source_kind"`
}

// Graph holds the nodes and edges of a document.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// GraphDocument is the artifact written by an export run.
type GraphDocument struct {
	Metadata Metadata `json:"metadata"`
	Graph    Graph    `json:"graph"`
}

// NewGraphDocument wraps edges in a document. Nodes and Edges are never nil
// so both serialize as JSON arrays.
func NewGraphDocument(edges []Edge) *GraphDocument {
	if edges == nil {
		edges = []Edge{}
	}
	return &GraphDocument{
		Metadata: Metadata{SourceKind: SourceKind},
		Graph: Graph{
			Nodes: []Node{},
			Edges: edges,
		},
	}
}
