package locate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/spread/pkg/version"
)

// Kind tags how a reference is resolved.
type Kind int

const (
	BareName Kind = iota
	BareNameWithVersion
	HomepageRelative
	LocalPath
	AbsoluteURL
)

var kindNames = [...]string{
	BareName:            "bare-name",
	BareNameWithVersion: "bare-name-with-version",
	HomepageRelative:    "homepage-relative",
	LocalPath:           "local-path",
	AbsoluteURL:         "url",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Reference is a classified spread reference.
type Reference struct {
	Raw     string // reference as given
	Target  string // reference with any version suffix removed
	Version string // version suffix, "" if none
	Kind    Kind
}

var (
	drivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)
	// Git Bash rewrites "/spread/x" into a path under its install directory.
	msysSpreadPath = regexp.MustCompile(`(?:Program Files/Git|Git)/spread/(.+)$`)
)

// Classify splits off a version suffix and tags ref with the rule that
// resolves it.
func Classify(ref string) Reference {
	r := Reference{Raw: ref, Target: unmangle(ref)}

	if i := strings.LastIndex(r.Target, "@"); i >= 0 {
		suffix := r.Target[i+1:]
		if suffix == version.LatestTag || version.IsVersion(suffix) {
			r.Version = suffix
			r.Target = r.Target[:i]
		}
	}

	switch {
	case strings.HasPrefix(r.Target, "/"):
		r.Kind = HomepageRelative
	case isLocalPath(r.Target):
		r.Kind = LocalPath
	case isURL(r.Target):
		r.Kind = AbsoluteURL
	case r.Version != "":
		r.Kind = BareNameWithVersion
	default:
		r.Kind = BareName
	}
	return r
}

func unmangle(ref string) string {
	s := strings.ReplaceAll(ref, "\\", "/")
	if m := msysSpreadPath.FindStringSubmatch(s); m != nil {
		return "/spread/" + m[1]
	}
	return ref
}

func isLocalPath(s string) bool {
	return strings.HasPrefix(s, "file://") || drivePath.MatchString(s) || strings.HasPrefix(s, `\\`)
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
