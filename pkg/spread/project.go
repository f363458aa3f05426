package spread

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/spread/pkg/version"
)

// File and directory names of a spread project.
const (
	ProjectFile    = "spread.json"
	OutputDir      = "public/spread"
	RegistryFile   = "registry.json"
	DefaultHomeURL = "http://localhost:3000"
)

// Project is the producer-side spread.json.
type Project struct {
	Schema      string       `json:"$schema,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Homepage    string       `json:"homepage,omitempty"`
	Author      string       `json:"author,omitempty"`
	Items       []Descriptor `json:"items"`
}

// Item returns the item called name.
func (p *Project) Item(name string) (*Descriptor, bool) {
	for i := range p.Items {
		if p.Items[i].Name == name {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// HomepageOrDefault returns the homepage, or [DefaultHomeURL] when unset.
func (p *Project) HomepageOrDefault() string {
	if p == nil || p.Homepage == "" {
		return DefaultHomeURL
	}
	return p.Homepage
}

// LoadProject reads dir/spread.json. A missing file yields (nil, nil).
// Backslashes in item file paths are normalised to forward slashes.
func LoadProject(dir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProjectFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", ProjectFile, err)
	}
	for i := range p.Items {
		for j := range p.Items[i].Files {
			f := &p.Items[i].Files[j]
			f.Path = strings.ReplaceAll(f.Path, "\\", "/")
		}
	}
	return &p, nil
}

// SaveProject writes p to dir/spread.json with two-space indentation.
func SaveProject(dir string, p *Project) error {
	return writeJSON(filepath.Join(dir, ProjectFile), p)
}

// LoadRegistry reads the built registry under dir/public/spread. A missing
// file yields an empty document.
func LoadRegistry(dir string) (*RegistryDocument, error) {
	data, err := os.ReadFile(filepath.Join(dir, OutputDir, RegistryFile))
	if errors.Is(err, os.ErrNotExist) {
		return NewRegistryDocument(), nil
	}
	if err != nil {
		return nil, err
	}

	var r RegistryDocument
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", RegistryFile, err)
	}
	if r.Spreads == nil {
		r.Spreads = make(map[string]RegistryEntry)
	}
	return &r, nil
}

// SaveRegistry writes r to dir/public/spread/registry.json.
func SaveRegistry(dir string, r *RegistryDocument) error {
	out := filepath.Join(dir, OutputDir)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(out, RegistryFile), r)
}

// AddVersion records version for name, pointing the entry at base. Versions
// stay unique and sorted in ascending order.
func (r *RegistryDocument) AddVersion(name, base, v string) {
	if r.Spreads == nil {
		r.Spreads = make(map[string]RegistryEntry)
	}
	e := r.Spreads[name]
	e.Spread = base
	if !slices.Contains(e.Versions, v) {
		e.Versions = version.Sorted(append(e.Versions, v))
	}
	r.Spreads[name] = e
}

// SaveDescriptor writes d to path with two-space indentation.
func SaveDescriptor(path string, d *Descriptor) error {
	return writeJSON(path, d)
}

// ItemTypes lists the spread types recorded in spread.json.
var ItemTypes = []string{"component", "utility", "hook", "layout", "page"}

// DefaultType is the type of items that do not declare a known one.
const DefaultType = "component"

// NormalizeType returns t if it is one of [ItemTypes], else [DefaultType].
func NormalizeType(t string) string {
	if slices.Contains(ItemTypes, t) {
		return t
	}
	return DefaultType
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
