package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/vango-dev/reactor/pkg/reconciler"
)

const bucketSnapshots = "snapshots"

// BoltFileName is the database file BoltStore opens inside its directory.
const BoltFileName = "snapshots.db"

// BoltStore stores snapshots in a bbolt database, one key per snapshot.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the database in dir.
func NewBoltStore(dir string) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(filepath.Join(dir, BoltFileName), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save implements Store.
func (s *BoltStore) Save(ctx context.Context, snap *reconciler.TreeSnapshot) (string, error) {
	data, err := encode(snap)
	if err != nil {
		return "", err
	}
	id := newID()
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Put([]byte(id), data)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Load implements Store.
func (s *BoltStore) Load(ctx context.Context, id string) (*reconciler.TreeSnapshot, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSnapshots)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// List implements Store.
func (s *BoltStore) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketSnapshots)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			info, err := infoOf(string(k), v)
			if err != nil {
				return err
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortInfos(infos)
	return infos, nil
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}
