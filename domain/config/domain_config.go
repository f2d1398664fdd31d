package config

import "semnet/domain/core/valueobjects"

// DomainConfig holds the configurable rules of the semantic network
type DomainConfig struct {
	// IsARelation is the relation label the inference engine propagates along
	IsARelation valueobjects.RelationKind

	// DefaultNodeColor is reported for nodes that never had a color set
	DefaultNodeColor string

	// AllowSelfPropagation lets the engine infer child→child edges when a
	// parent points back at its own child. Turning it off skips those triples.
	AllowSelfPropagation bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		IsARelation:          valueobjects.RelationIsA,
		DefaultNodeColor:     "#808080",
		AllowSelfPropagation: true,
	}
}
