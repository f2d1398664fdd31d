package valueobjects

import (
	"fmt"
	"strings"
)

// RelationKind labels a directed relation, e.g. "is-a" or "likes".
// Any user string is a valid kind; comparison is exact.
type RelationKind string

// RelationIsA is the relation the inference engine propagates along
const RelationIsA RelationKind = "is-a"

// String returns the label
func (k RelationKind) String() string {
	return string(k)
}

// Origin records who created a relation
type Origin string

const (
	// OriginManual marks a relation created by a user
	OriginManual Origin = "manual"
	// OriginInferred marks a relation created by the inference engine
	OriginInferred Origin = "inferred"
)

// ParseOrigin converts the persisted form of an origin. The empty string
// is treated as manual, the historical default.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(strings.ToLower(strings.TrimSpace(s))) {
	case "", OriginManual:
		return OriginManual, nil
	case OriginInferred:
		return OriginInferred, nil
	default:
		return "", fmt.Errorf("unknown relation origin %q", s)
	}
}

// IsInferred reports whether the origin is the inference engine
func (o Origin) IsInferred() bool {
	return o == OriginInferred
}

// String returns the persisted form
func (o Origin) String() string {
	if o == "" {
		return string(OriginManual)
	}
	return string(o)
}
