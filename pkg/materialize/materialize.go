// Package materialize writes spread files into a project.
//
// Binary targets, classified by file extension, carry base64 content; text
// targets carry their content verbatim. Entries without inline content are
// downloaded from their absolute URL. Writes are not transactional: when
// [Materializer.WriteAll] fails partway, files already written stay on disk.
package materialize

import (
	"context"
	"encoding/base64"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/spread/pkg/errors"
	"github.com/matzehuels/spread/pkg/integrations"
	"github.com/matzehuels/spread/pkg/observability"
	"github.com/matzehuels/spread/pkg/spread"
)

var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".svg": true, ".webp": true,
	".mp3": true, ".wav": true, ".ogg": true,
	".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".flv": true,
	".mkv": true, ".webm": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
}

// IsBinary reports whether name has a binary file extension.
func IsBinary(name string) bool {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	return binaryExtensions[strings.ToLower(ext)]
}

// Encode returns the inline content representation of data for target.
func Encode(target string, data []byte) string {
	if IsBinary(target) {
		return base64.StdEncoding.EncodeToString(data)
	}
	return string(data)
}

// Materializer writes file entries below a project root.
type Materializer struct {
	client *integrations.Client
}

// New returns a Materializer that downloads remote payloads with client.
func New(client *integrations.Client) *Materializer {
	return &Materializer{client: client}
}

// WriteAll materializes files in order and returns the targets written. It
// stops at the first failure; earlier files are left in place.
func (m *Materializer) WriteAll(ctx context.Context, files []spread.FileEntry, root string) ([]string, error) {
	var written []string
	for _, f := range files {
		if f.Target == "" {
			continue
		}
		if err := m.Materialize(ctx, f, root); err != nil {
			return written, err
		}
		written = append(written, f.Target)
	}
	return written, nil
}

// Materialize writes one entry to root/target, creating parent directories.
// Entries without a target are skipped.
func (m *Materializer) Materialize(ctx context.Context, f spread.FileEntry, root string) error {
	if f.Target == "" {
		return nil
	}
	if err := errors.ValidateTarget(f.Target); err != nil {
		return err
	}

	data, err := m.payload(ctx, f)
	if err == nil {
		err = write(filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(f.Target, "\\", "/"))), data)
	}
	observability.Traversal().OnMaterialize(ctx, f.Target, len(data), err)
	return err
}

func (m *Materializer) payload(ctx context.Context, f spread.FileEntry) ([]byte, error) {
	binary := IsBinary(f.Target)
	content := f.ContentString()

	switch {
	case content != "" && binary:
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid base64 content for %s", f.Target)
		}
		return data, nil
	case content != "":
		return []byte(content), nil
	case f.Absolute != "":
		if m.client == nil {
			return nil, errors.New(errors.ErrCodeInternal, "no HTTP client to fetch %s", f.Absolute)
		}
		data, err := m.client.GetBytes(ctx, f.Absolute)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "failed to fetch content from %s", f.Absolute)
		}
		return data, nil
	case f.HasContent():
		return []byte{}, nil
	}

	kind := "text"
	if binary {
		kind = "binary"
	}
	return nil, errors.New(errors.ErrCodeMissingPayload,
		"%s file %s must have either content or an absolute URL", kind, f.Target)
}

func write(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "failed to create directory for %s", dest)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "failed to write %s", dest)
	}
	return nil
}
