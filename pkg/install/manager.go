package install

import (
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/matzehuels/spread/pkg/errors"
)

// DefaultPackageManager is used when no package manager is configured.
const DefaultPackageManager = "npm"

// PackageManager describes how to invoke a package manager. Command holds
// the program and any leading arguments, e.g. ["pnpm", "--filter", "web"].
type PackageManager struct {
	Command []string
	Verb    string // subcommand adding packages: "install" or "add"
	DevFlag string // flag saving to devDependencies
}

// ParsePackageManager splits a configured command line with shell quoting
// rules and picks the verb and dev flag from the program name. Environment
// references in the command line are expanded from the process environment.
func ParsePackageManager(command string) (PackageManager, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultPackageManager
	}
	fields, err := shell.Fields(command, nil)
	if err != nil {
		return PackageManager{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid package manager command %q", command)
	}
	if len(fields) == 0 {
		return PackageManager{}, errors.New(errors.ErrCodeInvalidInput, "empty package manager command")
	}

	pm := PackageManager{Command: fields, Verb: "install", DevFlag: "--save-dev"}
	switch strings.TrimSuffix(filepath.Base(fields[0]), ".cmd") {
	case "pnpm":
		pm.Verb, pm.DevFlag = "add", "-D"
	case "yarn", "bun":
		pm.Verb, pm.DevFlag = "add", "--dev"
	}
	return pm, nil
}

// Name returns the program name.
func (pm PackageManager) Name() string {
	if len(pm.Command) == 0 {
		return DefaultPackageManager
	}
	return pm.Command[0]
}

// Args returns the arguments installing specs, e.g.
// ["install", "--save-dev", "eslint@^9.0.0"].
func (pm PackageManager) Args(specs []string, dev bool) []string {
	var args []string
	if len(pm.Command) > 1 {
		args = append(args, pm.Command[1:]...)
	}
	verb := pm.Verb
	if verb == "" {
		verb = "install"
	}
	args = append(args, verb)
	if dev {
		flag := pm.DevFlag
		if flag == "" {
			flag = "--save-dev"
		}
		args = append(args, flag)
	}
	return append(args, specs...)
}

// String returns the command line for specs, for logs and dry runs.
func (pm PackageManager) String(specs []string, dev bool) string {
	return strings.Join(append([]string{pm.Name()}, pm.Args(specs, dev)...), " ")
}
