package install

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	spreaderrors "github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/spread"
)

// PackageJSONFile is the npm manifest read before the handoff.
const PackageJSONFile = "package.json"

// PackageJSON is the subset of package.json the installer reconciles against.
type PackageJSON struct {
	Name            string              `json:"name,omitempty"`
	Dependencies    spread.Dependencies `json:"dependencies"`
	DevDependencies spread.Dependencies `json:"devDependencies"`
}

// Lookup returns the version pinned for name in the section matching dev.
func (p *PackageJSON) Lookup(name string, dev bool) (string, bool) {
	if p == nil {
		return "", false
	}
	if dev {
		return p.DevDependencies.Get(name)
	}
	return p.Dependencies.Get(name)
}

// Version returns the version of name from either section, runtime first.
func (p *PackageJSON) Version(name string) (string, bool) {
	if v, ok := p.Lookup(name, false); ok {
		return v, true
	}
	return p.Lookup(name, true)
}

// ReadPackageJSON reads dir/package.json. A missing file yields (nil, nil).
func ReadPackageJSON(dir string) (*PackageJSON, error) {
	path := filepath.Join(dir, PackageJSONFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeFileNotFound, err, "failed to read %s", path)
	}

	var p PackageJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeInvalidInput, err, "invalid %s", path)
	}
	return &p, nil
}
