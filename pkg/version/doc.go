// Package version picks spread versions from a registry's version list.
//
// Registries publish bare version strings ("1.0.0", "1.10.2"). The package
// canonicalises them to the "vMAJOR.MINOR.PATCH" form understood by
// [golang.org/x/mod/semver] so ordering is numeric per component:
//
//	version.Latest([]string{"1.2.0", "1.10.0", "1.9.9"}) // "1.10.0"
//
// [Select] is the entry point used during resolution. A hint of "" or
// [LatestTag] selects the maximum; anything else must be an exact member
// of the available set.
package version
