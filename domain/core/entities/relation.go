package entities

import (
	"time"

	"semnet/domain/core/valueobjects"
)

// RelationAttributes carries the optional attributes of a relation.
// The zero value describes a manual relation without metadata.
type RelationAttributes struct {
	Origin   valueobjects.Origin
	Metadata map[string]string
}

// Relation is a directed, labeled edge between two nodes
type Relation struct {
	source    string
	target    string
	kind      valueobjects.RelationKind
	origin    valueobjects.Origin
	metadata  map[string]string
	createdAt time.Time
}

// NewRelation creates a relation; an empty origin becomes manual
func NewRelation(source string, kind valueobjects.RelationKind, target string, attrs RelationAttributes) *Relation {
	r := &Relation{
		source:    source,
		target:    target,
		createdAt: time.Now(),
	}
	r.Reset(kind, attrs)
	return r
}

// Source returns the name of the source node
func (r *Relation) Source() string {
	return r.source
}

// Target returns the name of the target node
func (r *Relation) Target() string {
	return r.target
}

// Kind returns the relation label
func (r *Relation) Kind() valueobjects.RelationKind {
	return r.kind
}

// Origin returns who created the relation
func (r *Relation) Origin() valueobjects.Origin {
	return r.origin
}

// Inferred mirrors the origin as a flag
func (r *Relation) Inferred() bool {
	return r.origin.IsInferred()
}

// Metadata returns a copy of the opaque metadata map
func (r *Relation) Metadata() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// CreatedAt returns when the relation was first created
func (r *Relation) CreatedAt() time.Time {
	return r.createdAt
}

// Reset replaces the label and every attribute of the relation
func (r *Relation) Reset(kind valueobjects.RelationKind, attrs RelationAttributes) {
	origin := attrs.Origin
	if origin == "" {
		origin = valueobjects.OriginManual
	}

	metadata := make(map[string]string, len(attrs.Metadata))
	for k, v := range attrs.Metadata {
		metadata[k] = v
	}

	r.kind = kind
	r.origin = origin
	r.metadata = metadata
}
