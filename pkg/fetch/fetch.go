// Package fetch retrieves and parses spread descriptors from resolved
// locations.
package fetch

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/integrations"
	"github.com/matzehuels/spread/pkg/locate"
	"github.com/matzehuels/spread/pkg/observability"
	"github.com/matzehuels/spread/pkg/spread"
)

// Fetcher reads descriptors from disk or over HTTP. Each location is
// attempted once.
type Fetcher struct {
	client *integrations.Client
}

// New returns a Fetcher using client for remote locations.
func New(client *integrations.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch retrieves and parses the descriptor at loc. Any read, network or
// parse failure is reported as FETCH_FAILED with the location and cause.
func (f *Fetcher) Fetch(ctx context.Context, loc locate.Location) (*spread.Descriptor, error) {
	start := time.Now()
	d, err := f.fetch(ctx, loc)
	observability.Traversal().OnFetch(ctx, loc.String(), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "failed to fetch spread from %s", loc)
	}
	return d, nil
}

func (f *Fetcher) fetch(ctx context.Context, loc locate.Location) (*spread.Descriptor, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case loc.IsLocal():
		data, err = os.ReadFile(loc.Path)
	case loc.URL != "":
		data, err = f.client.GetBytes(ctx, loc.URL)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty location")
	}
	if err != nil {
		return nil, err
	}
	return spread.ParseDescriptor(data)
}
