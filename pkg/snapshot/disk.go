package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/reactor/pkg/reconciler"
)

const diskExt = ".json"

// DiskStore stores snapshots as JSON files in a directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore, creating dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save implements Store.
func (s *DiskStore) Save(ctx context.Context, snap *reconciler.TreeSnapshot) (string, error) {
	data, err := encode(snap)
	if err != nil {
		return "", err
	}
	id := newID()

	// Renamed into place once complete
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return id, nil
}

// Load implements Store.
func (s *DiskStore) Load(ctx context.Context, id string) (*reconciler.TreeSnapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

// List implements Store.
func (s *DiskStore) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var infos []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, diskExt) {
			continue
		}
		id := strings.TrimSuffix(name, diskExt)
		if validID(id) != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		info, err := infoOf(id, data)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	sortInfos(infos)
	return infos, nil
}

// Delete implements Store.
func (s *DiskStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.dir, id+diskExt)
}
