package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	spreaderrors "github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/install"
	"github.com/matzehuels/spread/pkg/materialize"
	"github.com/matzehuels/spread/pkg/spread"
)

// BuildOptions configures [Build].
type BuildOptions struct {
	Dir string // project directory holding spread.json

	// InferImports adds packages imported by text files to an item's
	// dependencies, taking versions from package.json. Packages the item
	// already declares are left alone.
	InferImports bool

	Logger *log.Logger
}

// BuildResult describes the generated output.
type BuildResult struct {
	Project   *spread.Project
	Registry  *spread.RegistryDocument
	Artifacts []string // descriptor paths written
}

// Build turns every spread.json item into public/spread/<name>@<version>.json
// and records it in public/spread/registry.json. A failing item aborts the
// build before the registry is saved.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	project, err := spread.LoadProject(opts.Dir)
	if err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeInvalidInput, err, "failed to load %s", spread.ProjectFile)
	}
	if project == nil {
		return nil, spreaderrors.New(spreaderrors.ErrCodeFileNotFound, "no %s found in %s", spread.ProjectFile, opts.Dir)
	}

	outDir := filepath.Join(opts.Dir, spread.OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeWriteFailed, err, "failed to create %s", outDir)
	}
	reg, err := spread.LoadRegistry(opts.Dir)
	if err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeInvalidInput, err, "failed to load registry")
	}

	var pkg *install.PackageJSON
	if opts.InferImports {
		if pkg, err = install.ReadPackageJSON(opts.Dir); err != nil {
			return nil, err
		}
		if pkg == nil {
			opts.Logger.Warn("package.json not found, cannot resolve imported package versions")
		}
	}

	homepage := project.HomepageOrDefault()
	result := &BuildResult{Project: project, Registry: reg}
	for i := range project.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := &project.Items[i]

		d, err := buildItem(opts.Dir, item, homepage, pkg)
		if err != nil {
			return nil, spreaderrors.Wrap(spreaderrors.GetCode(err), err, "failed to build %s", item.Name)
		}
		out := filepath.Join(outDir, spread.ArtifactFileName(d.Name, d.Version))
		if err := spread.SaveDescriptor(out, d); err != nil {
			return nil, spreaderrors.Wrap(spreaderrors.ErrCodeWriteFailed, err, "failed to build %s", item.Name)
		}
		reg.AddVersion(d.Name, homepage+"/spread/"+d.Name, d.Version)
		result.Artifacts = append(result.Artifacts, out)
		opts.Logger.Debug("built spread", "spread", d.ID(), "files", len(d.Files), "path", out)
	}

	if err := spread.SaveRegistry(opts.Dir, reg); err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeWriteFailed, err, "failed to save registry")
	}
	opts.Logger.Info("built spreads", "count", len(result.Artifacts))
	return result, nil
}

// buildItem produces the published descriptor for item. Files with a local
// path get their content inlined; files that only name an absolute URL keep
// it for install time.
func buildItem(dir string, item *spread.Descriptor, homepage string, pkg *install.PackageJSON) (*spread.Descriptor, error) {
	if err := spreaderrors.ValidateSpreadName(item.Name); err != nil {
		return nil, err
	}

	d := &spread.Descriptor{
		Schema:          spread.DescriptorSchema,
		Name:            item.Name,
		Description:     item.Description,
		Type:            item.Type,
		Version:         item.VersionOrDefault(),
		Keywords:        item.Keywords,
		Dependencies:    item.Dependencies.Clone(),
		DevDependencies: item.DevDependencies.Clone(),
		Files:           make([]spread.FileEntry, 0, len(item.Files)),
	}
	if d.Type == "" {
		d.Type = spread.DefaultType
	}

	for ref, req := range item.SpreadDependencies.All() {
		if strings.HasPrefix(ref, "/") {
			ref = homepage + ref
		}
		d.SpreadDependencies.Set(ref, req)
	}

	for _, f := range item.Files {
		out := spread.FileEntry{Path: f.Path, Absolute: f.Absolute, Target: f.Target}
		if out.Target == "" {
			src := f.Path
			if src == "" {
				src = f.Absolute
			}
			out.Target = spread.DefaultTarget(item.Name, src)
		}
		if f.Path != "" {
			content, err := readFileContent(dir, f.Path)
			if err != nil {
				return nil, spreaderrors.Wrap(spreaderrors.ErrCodeFileNotFound, err, "failed to read file %s", f.Path)
			}
			out.Content = spread.Text(content)
			if pkg != nil && !materialize.IsBinary(f.Path) {
				inferImports(d, content, pkg)
			}
		}
		d.Files = append(d.Files, out)
	}
	return d, nil
}

// readFileContent returns the file at name relative to dir, base64-encoded
// for binary files. A missing file reads as "".
func readFileContent(dir, name string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, filepath.FromSlash(name))
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return materialize.Encode(name, data), nil
}

var importPattern = regexp.MustCompile(`(?:import(?:.*?)from\s+["']([^"']+)["'])|(?:require\(\s*["']([^"']+)["']\s*\))`)

// ImportedPackages returns the bare package names imported or required by
// source, in first-seen order. Relative and absolute imports are ignored and
// subpath imports are reduced to their package ("lodash/fp" is "lodash").
func ImportedPackages(source string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range importPattern.FindAllStringSubmatch(source, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name == "" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "/") {
			continue
		}
		name = packageName(name)
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func packageName(spec string) string {
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// inferImports adds imported packages pinned in package.json to d, in the
// same section package.json lists them.
func inferImports(d *spread.Descriptor, source string, pkg *install.PackageJSON) {
	for _, name := range ImportedPackages(source) {
		if _, ok := d.Dependencies.Get(name); ok {
			continue
		}
		if _, ok := d.DevDependencies.Get(name); ok {
			continue
		}
		if v, ok := pkg.Lookup(name, false); ok {
			d.Dependencies.Set(name, v)
		} else if v, ok := pkg.Lookup(name, true); ok {
			d.DevDependencies.Set(name, v)
		}
	}
}
