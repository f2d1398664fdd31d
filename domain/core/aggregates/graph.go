package aggregates

import (
	"time"

	"semnet/domain/config"
	"semnet/domain/core/entities"
	"semnet/domain/core/valueobjects"
	"semnet/domain/events"
	pkgerrors "semnet/pkg/errors"

	"github.com/google/uuid"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// relationKey identifies the single relation allowed per ordered node pair
type relationKey struct {
	source string
	target string
}

// Graph is the aggregate root of the semantic network: the node set and the
// directed labeled relations between nodes.
//
// Enumeration order is insertion order for both nodes and relations. A
// relation replaced in place keeps its position; a relation removed and
// added again moves to the end.
//
// Graph is not safe for concurrent use.
type Graph struct {
	id        GraphID
	nodes     map[string]*entities.Node
	nodeOrder []string
	relations map[relationKey]*entities.Relation
	order     []relationKey
	outgoing  map[string][]relationKey
	config    *config.DomainConfig
	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// NewGraph creates an empty graph with default configuration
func NewGraph() *Graph {
	return NewGraphWithConfig(config.DefaultDomainConfig())
}

// NewGraphWithConfig creates an empty graph with specific configuration
func NewGraphWithConfig(cfg *config.DomainConfig) *Graph {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	now := time.Now()
	return &Graph{
		id:        NewGraphID(),
		nodes:     make(map[string]*entities.Node),
		relations: make(map[relationKey]*entities.Relation),
		outgoing:  make(map[string][]relationKey),
		config:    cfg,
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}
}

// ID returns the graph's unique identifier
func (g *Graph) ID() GraphID {
	return g.id
}

// Config returns the domain configuration the graph was built with
func (g *Graph) Config() *config.DomainConfig {
	return g.config
}

// Version returns the graph version, bumped on every effective mutation
func (g *Graph) Version() int {
	return g.version
}

// CreatedAt returns when the graph was created
func (g *Graph) CreatedAt() time.Time {
	return g.createdAt
}

// UpdatedAt returns when the graph was last mutated
func (g *Graph) UpdatedAt() time.Time {
	return g.updatedAt
}

// NodeCount returns the number of nodes in the graph
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of relations in the graph
func (g *Graph) EdgeCount() int {
	return len(g.relations)
}

// HasNode reports whether a node with the given name exists
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the node with the given name
func (g *Graph) Node(name string) (*entities.Node, bool) {
	node, ok := g.nodes[name]
	return node, ok
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(g.nodeOrder))
	for _, name := range g.nodeOrder {
		nodes = append(nodes, g.nodes[name])
	}
	return nodes
}

// Relation returns the relation from source to target, if any
func (g *Graph) Relation(source, target string) (*entities.Relation, bool) {
	rel, ok := g.relations[relationKey{source: source, target: target}]
	return rel, ok
}

// Relations returns all relations in insertion order
func (g *Graph) Relations() []*entities.Relation {
	return g.collect(g.order)
}

// Outgoing returns the relations leaving source, in insertion order
func (g *Graph) Outgoing(source string) []*entities.Relation {
	return g.collect(g.outgoing[source])
}

func (g *Graph) collect(keys []relationKey) []*entities.Relation {
	rels := make([]*entities.Relation, 0, len(keys))
	for _, key := range keys {
		rels = append(rels, g.relations[key])
	}
	return rels
}

// AddNode creates the node if absent, otherwise merges the supplied attributes
// into the existing node. It never fails.
func (g *Graph) AddNode(name string, attrs entities.NodeAttributes) *entities.Node {
	if node, exists := g.nodes[name]; exists {
		if node.Merge(attrs) {
			g.touch()
			g.addEvent(events.NewNodeUpdated(g.id.String(), g.version, name))
		}
		return node
	}

	node := entities.NewNode(name, attrs)
	g.nodes[name] = node
	g.nodeOrder = append(g.nodeOrder, name)
	g.touch()
	g.addEvent(events.NewNodeAdded(g.id.String(), g.version, name))

	return node
}

// RemoveNode deletes the node and every relation touching it.
// It reports whether the node existed; removing an unknown node is a no-op.
func (g *Graph) RemoveNode(name string) bool {
	if _, exists := g.nodes[name]; !exists {
		return false
	}

	removed := 0
	kept := g.order[:0]
	for _, key := range g.order {
		if key.source == name || key.target == name {
			delete(g.relations, key)
			if key.source != name {
				g.outgoing[key.source] = without(g.outgoing[key.source], key)
			}
			removed++
			continue
		}
		kept = append(kept, key)
	}
	g.order = kept
	delete(g.outgoing, name)

	delete(g.nodes, name)
	for i, n := range g.nodeOrder {
		if n == name {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}

	g.touch()
	g.addEvent(events.NewNodeRemoved(g.id.String(), g.version, name, removed))
	return true
}

// AddRelation creates the relation source→target, or replaces the label and
// attributes of the existing one for that pair. Both nodes must exist.
func (g *Graph) AddRelation(
	source string,
	kind valueobjects.RelationKind,
	target string,
	attrs entities.RelationAttributes,
) (*entities.Relation, error) {
	var missing []string
	if !g.HasNode(source) {
		missing = append(missing, source)
	}
	if !g.HasNode(target) {
		missing = append(missing, target)
	}
	if len(missing) > 0 {
		return nil, pkgerrors.NewMissingEndpointError(source, target, missing...)
	}

	key := relationKey{source: source, target: target}
	if rel, exists := g.relations[key]; exists {
		previous := rel.Kind()
		rel.Reset(kind, attrs)
		g.touch()
		g.addEvent(events.NewRelationChanged(
			g.id.String(), g.version, events.TypeRelationReplaced,
			source, target, kind.String(), rel.Origin().String(), previous.String(),
		))
		return rel, nil
	}

	rel := entities.NewRelation(source, kind, target, attrs)
	g.relations[key] = rel
	g.order = append(g.order, key)
	g.outgoing[source] = append(g.outgoing[source], key)
	g.touch()

	eventType := events.TypeRelationAdded
	if rel.Inferred() {
		eventType = events.TypeRelationInferred
	}
	g.addEvent(events.NewRelationChanged(
		g.id.String(), g.version, eventType,
		source, target, kind.String(), rel.Origin().String(), "",
	))

	return rel, nil
}

// RemoveRelation deletes the relation source→target. It reports whether the
// relation existed; removing an unknown relation is a no-op.
func (g *Graph) RemoveRelation(source, target string) bool {
	key := relationKey{source: source, target: target}
	rel, exists := g.relations[key]
	if !exists {
		return false
	}

	delete(g.relations, key)
	g.order = without(g.order, key)
	g.outgoing[source] = without(g.outgoing[source], key)
	if len(g.outgoing[source]) == 0 {
		delete(g.outgoing, source)
	}

	g.touch()
	g.addEvent(events.NewRelationChanged(
		g.id.String(), g.version, events.TypeRelationRemoved,
		source, target, rel.Kind().String(), rel.Origin().String(), "",
	))
	return true
}

// GetUncommittedEvents returns events recorded since the last commit
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears the recorded events
func (g *Graph) MarkEventsAsCommitted() {
	g.events = []events.DomainEvent{}
}

func (g *Graph) touch() {
	g.version++
	g.updatedAt = time.Now()
}

func (g *Graph) addEvent(event events.DomainEvent) {
	g.events = append(g.events, event)
}

// without removes the first occurrence of key, preserving order
func without(keys []relationKey, key relationKey) []relationKey {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
