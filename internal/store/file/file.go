package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const fileSuffix = ".json"

// Backend stores each key in its own file under a directory. Writes go to
// a temporary file that is renamed over the target, so an interrupted
// write leaves the previous value readable.
type Backend struct {
	fs  afero.Fs
	dir string
}

func NewBackend(fs afero.Fs, dir string) (*Backend, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return &Backend{fs: fs, dir: dir}, nil
}

// NewOSBackend stores files on the local disk.
func NewOSBackend(dir string) (*Backend, error) {
	return NewBackend(afero.NewOsFs(), dir)
}

func (b *Backend) Get(key string) (string, bool, error) {
	data, err := afero.ReadFile(b.fs, b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (b *Backend) Set(key, value string) error {
	target := b.path(key)
	tmp := target + ".tmp"

	if err := afero.WriteFile(b.fs, tmp, []byte(value), 0o644); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := b.fs.Rename(tmp, target); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(key string) error {
	if err := b.fs.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Ping() error {
	info, err := b.fs.Stat(b.dir)
	if err != nil {
		return fmt.Errorf("storage dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", b.dir)
	}
	return nil
}

// path maps a key to a file name, keeping keys from escaping the directory.
func (b *Backend) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(b.dir, safe+fileSuffix)
}
