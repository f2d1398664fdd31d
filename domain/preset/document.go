package preset

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"semnet/domain/config"
	"semnet/domain/core/aggregates"
	"semnet/domain/core/entities"
	"semnet/domain/core/valueobjects"
	pkgerrors "semnet/pkg/errors"
)

// AppVersion is written to meta.version of every exported document
const AppVersion = "0.2"

// DefaultName is used when a document carries no name
const DefaultName = "Untitled"

// DefaultFilename is the preset loaded at startup when present
const DefaultFilename = "default.json"

const fileExtension = ".json"

// Meta describes a saved preset
type Meta struct {
	Name      string  `json:"name"`
	Version   string  `json:"version"`
	Thumbnail *string `json:"thumbnail"`
}

// Settings holds frontend settings saved alongside the graph
type Settings struct {
	Palette []string `json:"palette"`
}

// NodeRecord is the stored form of a node
type NodeRecord struct {
	ID       string            `json:"id"`
	Label    string            `json:"label,omitempty"`
	Color    string            `json:"color,omitempty"`
	X        *float64          `json:"x,omitempty"`
	Y        *float64          `json:"y,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// EdgeRecord is the stored form of a relation
type EdgeRecord struct {
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Relation string            `json:"relation"`
	Type     string            `json:"type,omitempty"`
	Dashes   bool              `json:"dashes"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Inferred reports whether the edge was produced by inference.
// Older files only set one of the two markers, so either one counts.
func (e EdgeRecord) Inferred() bool {
	return e.Dashes || strings.EqualFold(e.Type, valueobjects.OriginInferred.String())
}

// GraphSection holds the nodes and edges of a document
type GraphSection struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// Document is a graph saved as a preset file
type Document struct {
	Meta     Meta         `json:"meta"`
	Settings Settings     `json:"settings"`
	Nodes    []string     `json:"nodes"`
	Graph    GraphSection `json:"graph"`
}

// Summary is the listing entry of a stored preset
type Summary struct {
	Filename   string `json:"filename"`
	Name       string `json:"name"`
	HasPreview bool   `json:"has_preview"`
}

// Summary returns the listing entry of the document stored under filename
func (d *Document) Summary(filename string) Summary {
	name := d.Meta.Name
	if name == "" {
		name = DefaultName
	}
	return Summary{
		Filename:   filename,
		Name:       name,
		HasPreview: d.Meta.Thumbnail != nil && *d.Meta.Thumbnail != "",
	}
}

// FromSnapshot builds a document holding every node and relation of snap
func FromSnapshot(snap aggregates.Snapshot, name string, thumbnail *string, palette []string) *Document {
	if name == "" {
		name = DefaultName
	}
	if palette == nil {
		palette = []string{}
	}

	doc := &Document{
		Meta:     Meta{Name: name, Version: AppVersion, Thumbnail: thumbnail},
		Settings: Settings{Palette: palette},
		Nodes:    make([]string, 0, len(snap.Nodes)),
		Graph: GraphSection{
			Nodes: make([]NodeRecord, 0, len(snap.Nodes)),
			Edges: make([]EdgeRecord, 0, len(snap.Edges)),
		},
	}

	for _, n := range snap.Nodes {
		x, y := n.X, n.Y
		doc.Nodes = append(doc.Nodes, n.ID)
		doc.Graph.Nodes = append(doc.Graph.Nodes, NodeRecord{
			ID:       n.ID,
			Label:    n.Label,
			Color:    n.Color,
			X:        &x,
			Y:        &y,
			Metadata: n.Metadata,
		})
	}

	for _, e := range snap.Edges {
		doc.Graph.Edges = append(doc.Graph.Edges, EdgeRecord{
			Source:   e.Source,
			Target:   e.Target,
			Relation: e.Relation,
			Type:     e.Type,
			Dashes:   e.Dashes,
			Metadata: e.Metadata,
		})
	}

	return doc
}

// BuildGraph replays the document into a new graph: plain node names first,
// then node records with their attributes, then edges in file order.
// An edge whose endpoint was never declared fails with a missing endpoint error.
func BuildGraph(doc *Document, cfg *config.DomainConfig) (*aggregates.Graph, error) {
	graph := aggregates.NewGraphWithConfig(cfg)

	for _, name := range doc.Nodes {
		if name == "" {
			return nil, pkgerrors.NewValidationError("preset contains a node without a name")
		}
		graph.AddNode(name, entities.NodeAttributes{})
	}

	for _, n := range doc.Graph.Nodes {
		if n.ID == "" {
			return nil, pkgerrors.NewValidationError("preset contains a node without an id")
		}
		attrs := entities.NodeAttributes{X: n.X, Y: n.Y, Metadata: n.Metadata}
		if n.Color != "" {
			color := n.Color
			attrs.Color = &color
		}
		graph.AddNode(n.ID, attrs)
	}

	for _, e := range doc.Graph.Edges {
		if e.Relation == "" {
			return nil, pkgerrors.NewValidationError("preset contains an edge without a relation")
		}
		origin := valueobjects.OriginManual
		if e.Inferred() {
			origin = valueobjects.OriginInferred
		}
		_, err := graph.AddRelation(e.Source, valueobjects.RelationKind(e.Relation), e.Target, entities.RelationAttributes{
			Origin:   origin,
			Metadata: e.Metadata,
		})
		if err != nil {
			return nil, err
		}
	}

	graph.MarkEventsAsCommitted()
	return graph, nil
}

// Parse decodes a preset document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.NewValidationError("invalid preset document").WithCause(err)
	}
	return &doc, nil
}

// Marshal encodes a preset document the way it is stored on disk
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// SanitizeName validates a preset name and strips a trailing .json.
// Names must be bare file names.
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, fileExtension)
	if name == "" {
		return "", pkgerrors.NewValidationError("preset name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || filepath.Base(name) != name {
		return "", pkgerrors.NewValidationError("preset name must not contain path separators")
	}
	return name, nil
}

// Filename returns the storage file name for a preset name
func Filename(name string) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	return clean + fileExtension, nil
}

// IsPresetFile reports whether a stored file name looks like a preset
func IsPresetFile(filename string) bool {
	return strings.HasSuffix(filename, fileExtension) && len(filename) > len(fileExtension)
}
