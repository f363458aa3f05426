package registry

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	spreaderrors "github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/integrations"
	"github.com/matzehuels/spread/pkg/spread"
)

const (
	// DefaultURL is the base URL of the centralized registry.
	DefaultURL = "https://spread.neploom.com"

	// RawRegistryPath is the endpoint serving the raw registry document.
	RawRegistryPath = "/api/github?action=getRawRegistry"
)

// Central looks spreads up by name in the centralized registry.
type Central struct {
	client  *integrations.Client
	baseURL string
}

// NewCentral returns a Central querying baseURL, or [DefaultURL] if empty.
func NewCentral(client *integrations.Client, baseURL string) *Central {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Central{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the address of the raw registry document.
func (c *Central) URL() string { return c.baseURL + RawRegistryPath }

// Document fetches the full registry document. Any failure to fetch or
// decode it is reported as REGISTRY_UNAVAILABLE.
func (c *Central) Document(ctx context.Context) (*spread.RegistryDocument, error) {
	var doc spread.RegistryDocument
	if err := c.client.GetCached(ctx, c.URL(), &doc); err != nil {
		return nil, spreaderrors.Wrap(spreaderrors.ErrCodeRegistryUnavailable, err,
			"could not fetch or parse the centralized registry")
	}
	if doc.Spreads == nil {
		return nil, spreaderrors.New(spreaderrors.ErrCodeRegistryUnavailable,
			"could not fetch or parse the centralized registry")
	}
	return &doc, nil
}

// Lookup returns the registry entry for name.
func (c *Central) Lookup(ctx context.Context, name string) (spread.RegistryEntry, error) {
	doc, err := c.Document(ctx)
	if err != nil {
		return spread.RegistryEntry{}, err
	}
	e, ok := doc.Lookup(name)
	if !ok {
		return spread.RegistryEntry{}, spreaderrors.New(spreaderrors.ErrCodeSpreadNotFound,
			"spread %q not found in the centralized registry", name)
	}
	return e, nil
}

// Sibling resolves spread URLs through the registry.json next to them.
type Sibling struct {
	client *integrations.Client
}

// NewSibling returns a Sibling using client.
func NewSibling(client *integrations.Client) *Sibling {
	return &Sibling{client: client}
}

// Lookup fetches the registry.json in the directory of spreadURL and returns
// the entry named after the URL's final path segment. The component name is
// returned alongside the entry.
func (s *Sibling) Lookup(ctx context.Context, spreadURL string) (string, spread.RegistryEntry, error) {
	registryURL, component, err := SiblingURL(spreadURL)
	if err != nil {
		return "", spread.RegistryEntry{}, err
	}

	var doc spread.RegistryDocument
	if err := s.client.GetCached(ctx, registryURL, &doc); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", spread.RegistryEntry{}, spreaderrors.New(spreaderrors.ErrCodeRegistryNotFoundAtURL,
				"could not find registry.json at %s; a direct link to a spread file is not supported", registryURL)
		}
		return "", spread.RegistryEntry{}, spreaderrors.Wrap(spreaderrors.ErrCodeRegistryUnavailable, err,
			"failed to read registry at %s", registryURL)
	}

	e, ok := doc.Lookup(component)
	if !ok {
		return "", spread.RegistryEntry{}, spreaderrors.New(spreaderrors.ErrCodeComponentNotFound,
			"component %q not found in registry at %s", component, registryURL)
	}
	return component, e, nil
}

// SiblingURL derives the registry.json URL in the same directory as
// spreadURL, and the component name from its final path segment.
func SiblingURL(spreadURL string) (registryURL, component string, err error) {
	u, err := url.Parse(spreadURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", spreaderrors.New(spreaderrors.ErrCodeInvalidInput, "invalid spread URL %q", spreadURL)
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	component = path.Base(p)
	if component == "/" || component == "." {
		return "", "", spreaderrors.New(spreaderrors.ErrCodeInvalidInput, "spread URL %q has no component name", spreadURL)
	}
	sib := url.URL{Scheme: u.Scheme, Host: u.Host, Path: path.Join(path.Dir(p), spread.RegistryFile)}
	return sib.String(), component, nil
}
