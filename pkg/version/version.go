package version

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/matzehuels/spread/pkg/errors"
)

// LatestTag is the literal hint that asks for the newest available version.
const LatestTag = "latest"

// Select picks one version from available.
//
// An empty hint or [LatestTag] returns the maximum under semantic-version
// ordering. Any other hint is returned only if it is a member of available.
// It fails with NO_VERSIONS_AVAILABLE when available is empty and with
// VERSION_NOT_FOUND when an exact hint is not published.
func Select(available []string, hint string) (string, error) {
	if len(available) == 0 {
		return "", errors.New(errors.ErrCodeNoVersionsAvailable, "no versions available")
	}
	if hint == "" || hint == LatestTag {
		return Latest(available), nil
	}
	if slices.Contains(available, hint) {
		return hint, nil
	}
	return "", errors.New(errors.ErrCodeVersionNotFound, "version %q not found (available: %s)",
		hint, strings.Join(Sorted(available), ", "))
}

// Latest returns the maximum of vs, or "" if vs is empty.
func Latest(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return slices.MaxFunc(vs, Compare)
}

// Sorted returns a copy of vs in ascending version order.
func Sorted(vs []string) []string {
	out := slices.Clone(vs)
	slices.SortStableFunc(out, Compare)
	return out
}

// Compare orders two version strings. Valid versions compare numerically
// by component; invalid strings sort below every valid version and compare
// lexically among themselves.
func Compare(a, b string) int {
	ca, cb := canonical(a), canonical(b)
	switch {
	case ca != "" && cb != "":
		if c := semver.Compare(ca, cb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case ca != "":
		return 1
	case cb != "":
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// IsVersion reports whether s is usable as a version: a full or partial
// numeric version ("1", "1.2", "1.2.3"), optionally prefixed with "v" and
// optionally carrying a pre-release or build suffix.
func IsVersion(s string) bool {
	return canonical(s) != ""
}

// canonical converts s to the "vX.Y.Z" form, or "" if it is not a version.
func canonical(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if s[0] != 'v' {
		s = "v" + s
	}
	return semver.Canonical(s)
}
