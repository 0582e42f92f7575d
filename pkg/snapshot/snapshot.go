package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/reactor/pkg/reconciler"
)

// ErrNotFound is returned when a snapshot doesn't exist.
var ErrNotFound = errors.New("snapshot: not found")

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores snap and returns its ID.
	Save(ctx context.Context, snap *reconciler.TreeSnapshot) (id string, err error)

	// Load returns the snapshot with the given ID.
	Load(ctx context.Context, id string) (*reconciler.TreeSnapshot, error)

	// List describes every stored snapshot, oldest first.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a snapshot. Deleting a missing snapshot returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Info describes a stored snapshot.
type Info struct {
	ID           string    `json:"id"`
	ReconcilerID string    `json:"reconcilerId,omitempty"`
	Taken        time.Time `json:"taken"`
	Size         int64     `json:"size"`
}

func newID() string {
	return uuid.NewString()
}

// validID rejects IDs that could escape a directory or key prefix.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	return nil
}

func encode(snap *reconciler.TreeSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("snapshot: nil snapshot")
	}
	return json.MarshalIndent(snap, "", "  ")
}

func decode(data []byte) (*reconciler.TreeSnapshot, error) {
	var snap reconciler.TreeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return &snap, nil
}

// infoOf decodes the header fields of an encoded snapshot.
func infoOf(id string, data []byte) (Info, error) {
	var head struct {
		ReconcilerID string    `json:"reconcilerId"`
		Taken        time.Time `json:"taken"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Info{}, fmt.Errorf("snapshot %s: decode: %w", id, err)
	}
	return Info{
		ID:           id,
		ReconcilerID: head.ReconcilerID,
		Taken:        head.Taken,
		Size:         int64(len(data)),
	}, nil
}

func sortInfos(infos []Info) {
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Taken.Before(infos[j].Taken)
	})
}
