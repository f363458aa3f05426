// Package locate resolves user-supplied spread references into fetchable
// artifact locations.
//
// A reference is classified by [Classify] into one of five kinds, checked in
// a fixed order:
//
//  1. A trailing "@version" or "@latest" is split off first and overrides
//     any version hint passed by the caller.
//  2. [HomepageRelative]: a leading "/" is joined onto the project homepage
//     and resolved again as a URL.
//  3. [LocalPath]: a file:// URI or a drive-qualified path is glob-matched
//     and the first match is used as is.
//  4. [AbsoluteURL]: an http(s) URL is looked up in the registry.json in
//     the same directory.
//  5. [BareName] and [BareNameWithVersion]: anything else is looked up in
//     the centralized registry.
//
// Registry-backed kinds select a version with [version.Select] and produce
// the artifact URL "{base}@{version}.json".
//
// [version.Select]: github.com/matzehuels/spread/pkg/version.Select
package locate
