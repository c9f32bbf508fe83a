// Package archive keeps a copy of every receipt document handed to the tool.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Archive stores documents as files in one flat directory.
type Archive struct {
	dir string
}

// New returns an Archive rooted at dir, creating it if needed.
func New(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Dir returns the archive directory.
func (a *Archive) Dir() string {
	return a.dir
}

// Save writes data under the base of name and returns the stored file name.
// An existing file is never overwritten; a short random suffix is added
// before the extension instead.
func (a *Archive) Save(name string, data []byte) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = uuid.NewString() + ".pdf"
	}

	stored := base
	for range 5 {
		err := writeNew(filepath.Join(a.dir, stored), data)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("archiving %s: %w", name, err)
		}
		stored = withSuffix(base, uuid.NewString()[:8])
	}
	return "", fmt.Errorf("archiving %s: no free name", name)
}

// Open returns the bytes of a stored document.
func (a *Archive) Open(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("reading archived %s: %w", name, err)
	}
	return data, nil
}

// List returns stored file names in lexical order.
func (a *Archive) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("reading archive dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func withSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + suffix + ext
}
