package aggregates

// NodeView is the read-only representation of a node for display and export
type NodeView struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Color    string            `json:"color"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RelationView is the read-only representation of a relation.
// Type carries the origin ("manual" or "inferred"); Dashes mirrors it as
// the visual hint the frontend expects.
type RelationView struct {
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Relation string            `json:"relation"`
	Type     string            `json:"type"`
	Dashes   bool              `json:"dashes"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Snapshot is a point-in-time copy of the graph. Mutating it has no effect
// on the graph it was taken from.
type Snapshot struct {
	Nodes []NodeView     `json:"nodes"`
	Edges []RelationView `json:"edges"`
}

// Snapshot returns a copy of all nodes and relations in insertion order.
// Nodes without a color report the configured default color.
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes: make([]NodeView, 0, len(g.nodeOrder)),
		Edges: make([]RelationView, 0, len(g.order)),
	}

	for _, node := range g.Nodes() {
		color := node.Color()
		if !node.HasColor() {
			color = g.config.DefaultNodeColor
		}

		view := NodeView{
			ID:    node.Name(),
			Label: node.Name(),
			Color: color,
			X:     node.Position().X(),
			Y:     node.Position().Y(),
		}
		if md := node.Metadata(); len(md) > 0 {
			view.Metadata = md
		}
		snap.Nodes = append(snap.Nodes, view)
	}

	for _, rel := range g.Relations() {
		view := RelationView{
			Source:   rel.Source(),
			Target:   rel.Target(),
			Relation: rel.Kind().String(),
			Type:     rel.Origin().String(),
			Dashes:   rel.Inferred(),
		}
		if md := rel.Metadata(); len(md) > 0 {
			view.Metadata = md
		}
		snap.Edges = append(snap.Edges, view)
	}

	return snap
}
