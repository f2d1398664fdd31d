package services

import (
	"semnet/domain/core/aggregates"
	"semnet/domain/core/entities"
	"semnet/domain/core/valueobjects"
)

// ConflictSentinel is returned by CountPotential when at least one conflict
// would be reported by Run.
const ConflictSentinel = -1

// InferredRelation describes a relation created by an inference pass
type InferredRelation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// Conflict describes a propagated relation that contradicts an existing one.
// Conflicts are reported, never resolved: the existing relation is kept.
type Conflict struct {
	Child            string `json:"child"`
	Target           string `json:"target"`
	ExistingRelation string `json:"existing_relation"`
	InferredRelation string `json:"inferred_relation"`
}

// candidate is one (child, parent, target) triple: child is-a parent, and
// parent relates to target with kind.
type candidate struct {
	child  string
	parent string
	target string
	kind   valueobjects.RelationKind
}

// InferenceEngine propagates relations one hop along is-a relations.
//
// For every relation child -is-a-> parent and every relation
// parent -kind-> target, child -kind-> target is implied. An implied relation
// that already exists is skipped, one that exists with another label is a
// conflict, and anything else is new.
//
// The engine keeps no state of its own; it reads and writes the graph it was
// created for.
type InferenceEngine struct {
	graph *aggregates.Graph
}

// NewInferenceEngine creates an engine bound to graph
func NewInferenceEngine(graph *aggregates.Graph) *InferenceEngine {
	return &InferenceEngine{graph: graph}
}

// CountPotential returns the number of relations Run would create, or
// ConflictSentinel if Run would report any conflict. The graph is not modified.
func (e *InferenceEngine) CountPotential() int {
	pending := make(map[[2]string]valueobjects.RelationKind)
	count := 0

	for _, c := range e.candidates() {
		key := [2]string{c.child, c.target}

		kind, found := pending[key]
		if rel, ok := e.graph.Relation(c.child, c.target); ok {
			kind, found = rel.Kind(), true
		}

		if found {
			if kind != c.kind {
				return ConflictSentinel
			}
			continue
		}

		pending[key] = c.kind
		count++
	}

	return count
}

// Run performs one inference pass and commits every new relation to the
// graph with origin inferred. It returns the created relations and the
// conflicts found, both in traversal order.
//
// Relations created by this pass are not propagated further within the same
// pass; call Run again to follow longer is-a chains.
func (e *InferenceEngine) Run() ([]InferredRelation, []Conflict) {
	newRelations := []InferredRelation{}
	conflicts := []Conflict{}

	for _, c := range e.candidates() {
		if existing, ok := e.graph.Relation(c.child, c.target); ok {
			if existing.Kind() != c.kind {
				conflicts = append(conflicts, Conflict{
					Child:            c.child,
					Target:           c.target,
					ExistingRelation: existing.Kind().String(),
					InferredRelation: c.kind.String(),
				})
			}
			continue
		}

		_, err := e.graph.AddRelation(c.child, c.kind, c.target, entities.RelationAttributes{
			Origin: valueobjects.OriginInferred,
		})
		if err != nil {
			// Both endpoints come from existing relations, so this cannot happen
			// on a consistent graph.
			continue
		}

		newRelations = append(newRelations, InferredRelation{
			Source:   c.child,
			Target:   c.target,
			Relation: c.kind.String(),
		})
	}

	return newRelations, conflicts
}

// candidates enumerates the propagation triples of the graph as it is now:
// is-a relations in insertion order, then each parent's outgoing relations
// in insertion order.
func (e *InferenceEngine) candidates() []candidate {
	cfg := e.graph.Config()

	var out []candidate
	for _, isA := range e.graph.Relations() {
		if isA.Kind() != cfg.IsARelation {
			continue
		}

		child, parent := isA.Source(), isA.Target()
		for _, rel := range e.graph.Outgoing(parent) {
			if rel.Target() == child && !cfg.AllowSelfPropagation {
				continue
			}
			out = append(out, candidate{
				child:  child,
				parent: parent,
				target: rel.Target(),
				kind:   rel.Kind(),
			})
		}
	}

	return out
}
