package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrInvalidName = errors.New("invalid document name")

// FilePresenter keeps a copy of every generated document under
// root/<tenant>/<file name>. A later render of the same receipt overwrites it.
type FilePresenter struct {
	root string
}

// NewFilePresenter creates the root directory if needed
func NewFilePresenter(root string) (*FilePresenter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", root, err)
	}
	return &FilePresenter{root: root}, nil
}

// Present writes data and returns the path it was saved to
func (p *FilePresenter) Present(ctx context.Context, tenantID, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tenantDir, err := safeName(tenantID)
	if err != nil {
		return "", err
	}
	name, err := safeName(fileName)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(p.root, tenantDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dir, err)
	}

	// write then rename so readers never see a partial file
	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("storage: rename %s: %w", name, err)
	}

	log.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(data)).Msg("document copy saved")
	return path, nil
}

// NopPresenter is used when copies are disabled
type NopPresenter struct{}

func (NopPresenter) Present(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

func safeName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return s, nil
}
