// Package snapshot persists reconciler tree snapshots.
//
// A snapshot is the JSON form of reconciler.TreeSnapshot. Three stores are
// provided:
//
//   - DiskStore writes one file per snapshot to a directory.
//   - BoltStore keeps snapshots in a bbolt database file.
//   - S3Store writes one object per snapshot to an S3 bucket.
//
// # Usage
//
//	store, err := snapshot.NewDiskStore(".reactor/snapshots")
//	if err != nil {
//	    return err
//	}
//	id, err := store.Save(ctx, r.Snapshot())
package snapshot
