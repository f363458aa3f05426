package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/spread/pkg/dag"
	"github.com/matzehuels/spread/pkg/dag/transform"
	"github.com/matzehuels/spread/pkg/render/nodelink"
)

// Render generates graph artifacts in the requested formats. With
// opts.Reduce, g is transitively reduced in place first.
func Render(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	if opts.Reduce {
		transform.TransitiveReduction(g)
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported graph format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
