package entities

import (
	"time"

	"semnet/domain/core/valueobjects"
)

// NodeAttributes carries optional display attributes for a node.
// A nil field means "not supplied" and leaves the current value untouched.
type NodeAttributes struct {
	Color    *string
	X        *float64
	Y        *float64
	Metadata map[string]string
}

// IsEmpty reports whether no attribute was supplied
func (a NodeAttributes) IsEmpty() bool {
	return a.Color == nil && a.X == nil && a.Y == nil && len(a.Metadata) == 0
}

// Node is a named entity of the semantic network.
// Display attributes play no part in inference but survive every mutation.
type Node struct {
	name      string
	color     string
	position  valueobjects.Position
	metadata  map[string]string
	createdAt time.Time
	updatedAt time.Time
}

// NewNode creates a node with the given attributes applied
func NewNode(name string, attrs NodeAttributes) *Node {
	now := time.Now()
	node := &Node{
		name:      name,
		metadata:  make(map[string]string),
		createdAt: now,
		updatedAt: now,
	}
	node.Merge(attrs)
	return node
}

// Name returns the node's unique, case-sensitive name
func (n *Node) Name() string {
	return n.name
}

// Color returns the node color, empty when never set
func (n *Node) Color() string {
	return n.color
}

// HasColor reports whether a color was ever set
func (n *Node) HasColor() bool {
	return n.color != ""
}

// Position returns the node's canvas position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Metadata returns a copy of the opaque metadata map
func (n *Node) Metadata() map[string]string {
	out := make(map[string]string, len(n.metadata))
	for k, v := range n.metadata {
		out[k] = v
	}
	return out
}

// CreatedAt returns when the node was first added
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdatedAt returns when the node attributes last changed
func (n *Node) UpdatedAt() time.Time {
	return n.updatedAt
}

// Merge applies the supplied attributes and reports whether anything changed.
// Metadata keys are merged one by one.
func (n *Node) Merge(attrs NodeAttributes) bool {
	changed := false

	if attrs.Color != nil && *attrs.Color != n.color {
		n.color = *attrs.Color
		changed = true
	}
	if attrs.X != nil && *attrs.X != n.position.X() {
		n.position = n.position.WithX(*attrs.X)
		changed = true
	}
	if attrs.Y != nil && *attrs.Y != n.position.Y() {
		n.position = n.position.WithY(*attrs.Y)
		changed = true
	}
	for k, v := range attrs.Metadata {
		if current, ok := n.metadata[k]; !ok || current != v {
			n.metadata[k] = v
			changed = true
		}
	}

	if changed {
		n.updatedAt = time.Now()
	}
	return changed
}
