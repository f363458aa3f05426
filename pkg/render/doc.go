// Package render holds the renderers for spread dependency graphs.
//
// The [nodelink] subpackage produces Graphviz DOT and SVG diagrams of the
// graph recorded by a traversal. It backs the `spread graph` command.
//
// [nodelink]: github.com/matzehuels/spread/pkg/render/nodelink
package render
