package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// isolate points the user config directory and dotenv file at t's temp dir.
func isolate(t *testing.T) (configDir, envFile string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	for _, k := range Keys {
		t.Setenv("SPREAD_"+strings.ToUpper(k), "")
	}
	return filepath.Join(root, AppName), filepath.Join(root, EnvFile)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	_, envFile := isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want %+v", cfg, Default())
	}
	if cfg.HTTPTimeout != 30*time.Second || cfg.PackageManager != "npm" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadLayers(t *testing.T) {
	configDir, envFile := isolate(t)
	writeFile(t, filepath.Join(configDir, ConfigFileName), `
registry_url = "https://file.example.com"
http_timeout = 10
package_manager = "pnpm"
memo_size = 4
`)
	writeFile(t, envFile, `
SPREAD_PACKAGE_MANAGER=yarn
SPREAD_MEMO_SIZE=8
OTHER_SETTING=ignored
`)
	t.Setenv("SPREAD_MEMO_SIZE", "16")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("registry-url", "", "")
	fs.Duration("timeout", 0, "")
	if err := fs.Parse([]string{"--registry-url=https://flag.example.com"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{
		EnvFile: envFile,
		Flags: map[string]*pflag.Flag{
			KeyRegistryURL: fs.Lookup("registry-url"),
			KeyHTTPTimeout: fs.Lookup("timeout"),
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		RegistryURL:    "https://flag.example.com", // flag beats file
		HTTPTimeout:    10 * time.Second,           // unset flag leaves the file value
		PackageManager: "yarn",                     // .env.local beats file
		ProjectDir:     ".",
		MemoSize:       16, // environment beats .env.local
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadDurationString(t *testing.T) {
	configDir, envFile := isolate(t)
	writeFile(t, filepath.Join(configDir, ConfigFileName), `http_timeout = "1m30s"`)

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPTimeout != 90*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}

	t.Setenv("SPREAD_HTTP_TIMEOUT", "0")
	cfg, err = Load(LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, want unbounded", cfg.HTTPTimeout)
	}
}

func TestLoadCustomFile(t *testing.T) {
	_, envFile := isolate(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.toml"), EnvFile: envFile})
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}

	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `project_dir = "web"`)
	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectDir != "web" {
		t.Errorf("ProjectDir = %q", cfg.ProjectDir)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":          `registry_url = `,
		"negative memo":   `memo_size = -1`,
		"empty registry":  `registry_url = ""`,
		"bad manager":     `package_manager = "npm \"oops"`,
		"negative period": `http_timeout = "-5s"`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configDir, envFile := isolate(t)
			writeFile(t, filepath.Join(configDir, ConfigFileName), content)
			if _, err := Load(LoadOptions{EnvFile: envFile}); err == nil {
				t.Errorf("Load accepted %q", content)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	configDir, envFile := isolate(t)

	in := Config{
		RegistryURL:    "http://localhost:3000",
		HTTPTimeout:    45 * time.Second,
		PackageManager: "pnpm --filter web",
		ProjectDir:     "apps/web",
		MemoSize:       2,
	}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	writeFile(t, filepath.Join(configDir, ConfigFileName), buf.String())

	out, err := Load(LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v\n%s", err, buf.String())
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
