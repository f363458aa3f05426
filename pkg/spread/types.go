package spread

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// DefaultVersion is reported for descriptors published without a version.
const DefaultVersion = "0.0.0"

// Schema URLs written into generated documents.
const (
	DescriptorSchema = "https://spread.neploom.com/schema/spread.json"
	RegistrySchema   = "https://spread.neploom.com/schema/spread-registry.json"
)

// Descriptor is a published spread: a named, versioned bundle of files plus
// the package and spread dependencies it declares. Descriptors are read-only
// once fetched and identified by [Descriptor.ID].
type Descriptor struct {
	Schema             string       `json:"$schema,omitempty"`
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	Type               string       `json:"type,omitempty"`
	Version            string       `json:"version,omitempty"`
	Keywords           []string     `json:"keywords,omitempty"`
	SpreadDependencies Dependencies `json:"spreadDependencies,omitzero"`
	Dependencies       Dependencies `json:"dependencies,omitzero"`
	DevDependencies    Dependencies `json:"devDependencies,omitzero"`
	Files              []FileEntry  `json:"files"`
}

// VersionOrDefault returns the version, or [DefaultVersion] when unset.
func (d *Descriptor) VersionOrDefault() string {
	if d.Version == "" {
		return DefaultVersion
	}
	return d.Version
}

// ID returns the "name@version" identity of the descriptor.
func (d *Descriptor) ID() string {
	return d.Name + "@" + d.VersionOrDefault()
}

// FileEntry is one file of a spread. Content holds the inline payload
// (base64 for binary targets); Absolute is a URL fetched at install time
// when Content is absent. Entries without a Target are not materialized.
type FileEntry struct {
	Path     string  `json:"path,omitempty"`
	Absolute string  `json:"absolute,omitempty"`
	Target   string  `json:"target,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// HasContent reports whether an inline payload is present, even if empty.
func (f FileEntry) HasContent() bool { return f.Content != nil }

// ContentString returns the inline payload or "".
func (f FileEntry) ContentString() string {
	if f.Content == nil {
		return ""
	}
	return *f.Content
}

// Text returns a pointer to s, for building FileEntry literals.
func Text(s string) *string { return &s }

// ParseDescriptor decodes a descriptor document.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse spread descriptor: %w", err)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("parse spread descriptor: missing name")
	}
	return &d, nil
}

// RegistryEntry describes one spread in a registry document.
type RegistryEntry struct {
	Spread   string   `json:"spread"`
	Versions []string `json:"versions"`
}

// RegistryDocument is the registry.json format shared by the centralized
// registry and per-site registries published next to built spreads.
type RegistryDocument struct {
	Schema  string                   `json:"$schema,omitempty"`
	Spreads map[string]RegistryEntry `json:"spreads"`
}

// NewRegistryDocument returns an empty registry document.
func NewRegistryDocument() *RegistryDocument {
	return &RegistryDocument{Schema: RegistrySchema, Spreads: make(map[string]RegistryEntry)}
}

// Lookup returns the entry for name.
func (r *RegistryDocument) Lookup(name string) (RegistryEntry, bool) {
	if r == nil || r.Spreads == nil {
		return RegistryEntry{}, false
	}
	e, ok := r.Spreads[name]
	return e, ok
}

// ArtifactURL returns the versioned artifact location "{base}@{version}.json".
func ArtifactURL(base, version string) string {
	return base + "@" + version + ".json"
}

// ArtifactFileName returns the file name a built descriptor is written to.
func ArtifactFileName(name, version string) string {
	return name + "@" + version + ".json"
}

// DefaultTarget is the install target used by build for files that do not
// declare one: src/app/component/ui/<name><ext>.
func DefaultTarget(name, source string) string {
	return "src/app/component/ui/" + name + path.Ext(strings.ReplaceAll(source, "\\", "/"))
}
