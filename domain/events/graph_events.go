package events

// Node Events

// NodeAdded is raised when a node is created
type NodeAdded struct {
	BaseEvent
	Name string `json:"name"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(graphID string, version int, name string) NodeAdded {
	return NodeAdded{BaseEvent: newBase(graphID, TypeNodeAdded, version), Name: name}
}

// NodeUpdated is raised when attributes of an existing node change
type NodeUpdated struct {
	BaseEvent
	Name string `json:"name"`
}

// NewNodeUpdated creates a NodeUpdated event
func NewNodeUpdated(graphID string, version int, name string) NodeUpdated {
	return NodeUpdated{BaseEvent: newBase(graphID, TypeNodeUpdated, version), Name: name}
}

// NodeRemoved is raised when a node and its incident relations are deleted
type NodeRemoved struct {
	BaseEvent
	Name             string `json:"name"`
	RemovedRelations int    `json:"removed_relations"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(graphID string, version int, name string, removedRelations int) NodeRemoved {
	return NodeRemoved{
		BaseEvent:        newBase(graphID, TypeNodeRemoved, version),
		Name:             name,
		RemovedRelations: removedRelations,
	}
}

// Relation Events

// RelationChanged is raised when a relation is added, replaced, inferred or removed.
// The event type tells which.
type RelationChanged struct {
	BaseEvent
	Source           string `json:"source"`
	Target           string `json:"target"`
	Relation         string `json:"relation"`
	Origin           string `json:"origin"`
	PreviousRelation string `json:"previous_relation,omitempty"`
}

// NewRelationChanged creates a RelationChanged event of the given type
func NewRelationChanged(graphID string, version int, eventType, source, target, relation, origin, previous string) RelationChanged {
	return RelationChanged{
		BaseEvent:        newBase(graphID, eventType, version),
		Source:           source,
		Target:           target,
		Relation:         relation,
		Origin:           origin,
		PreviousRelation: previous,
	}
}

// Application Events

// InferenceCompleted is raised after an inference pass committed its results
type InferenceCompleted struct {
	BaseEvent
	NewRelations int `json:"new_relations"`
	Conflicts    int `json:"conflicts"`
}

// NewInferenceCompleted creates an InferenceCompleted event
func NewInferenceCompleted(graphID string, version, newRelations, conflicts int) InferenceCompleted {
	return InferenceCompleted{
		BaseEvent:    newBase(graphID, TypeInferenceCompleted, version),
		NewRelations: newRelations,
		Conflicts:    conflicts,
	}
}

// GraphReplaced is raised when the whole graph is swapped, e.g. by a preset import
type GraphReplaced struct {
	BaseEvent
	PreviousGraphID string `json:"previous_graph_id,omitempty"`
	Preset          string `json:"preset"`
	Nodes           int    `json:"nodes"`
	Relations       int    `json:"relations"`
}

// NewGraphReplaced creates a GraphReplaced event
func NewGraphReplaced(graphID, previousGraphID, preset string, nodes, relations int) GraphReplaced {
	return GraphReplaced{
		BaseEvent:       newBase(graphID, TypeGraphReplaced, 1),
		PreviousGraphID: previousGraphID,
		Preset:          preset,
		Nodes:           nodes,
		Relations:       relations,
	}
}

// PresetSaved is raised when the current graph is exported
type PresetSaved struct {
	BaseEvent
	Filename string `json:"filename"`
	Name     string `json:"name"`
}

// NewPresetSaved creates a PresetSaved event
func NewPresetSaved(graphID string, version int, filename, name string) PresetSaved {
	return PresetSaved{
		BaseEvent: newBase(graphID, TypePresetSaved, version),
		Filename:  filename,
		Name:      name,
	}
}
