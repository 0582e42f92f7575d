package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reconciler"
	"github.com/vango-dev/reactor/pkg/snapshot"
	"github.com/vango-dev/reactor/pkg/vdom"
	"github.com/vango-dev/reactor/pkg/vtest"
)

// openStore opens the snapshot store the config selects. The returned
// close function is never nil.
func openStore(ctx context.Context, cfg *config.Config) (snapshot.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Snapshot.Driver {
	case config.DriverBolt:
		store, err := snapshot.NewBoltStore(cfg.SnapshotDir())
		if err != nil {
			return nil, noop, storeError(cfg, err)
		}
		return store, store.Close, nil

	case config.DriverS3:
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.Snapshot.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.Snapshot.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, noop, storeError(cfg, err)
		}
		return snapshot.NewS3Store(s3.NewFromConfig(awsCfg), cfg.Snapshot.Bucket, cfg.Snapshot.Prefix), noop, nil

	default:
		store, err := snapshot.NewDiskStore(cfg.SnapshotDir())
		if err != nil {
			return nil, noop, storeError(cfg, err)
		}
		return store, noop, nil
	}
}

func storeError(cfg *config.Config, err error) error {
	return errors.New("RE120").
		WithDetail("Could not open the " + cfg.Snapshot.Driver + " snapshot store.").
		Wrap(err)
}

func notFound(id string, err error) error {
	if stderrors.Is(err, snapshot.ErrNotFound) {
		return errors.New("RE121").
			WithDetail("No snapshot with ID " + id + ".").
			WithSuggestion("Run 'reactor snapshot list' to see the stored snapshots").
			Wrap(err)
	}
	return err
}

func snapshotCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect tree snapshots",
		Long: `Save and inspect tree snapshots in the configured store.

The store is selected by the "snapshot" section of the config:
disk (default), bolt or s3.

Examples:
  reactor snapshot save
  reactor snapshot save --from=http://localhost:7070
  reactor snapshot list
  reactor snapshot show <id>
  reactor snapshot rm <id>`,
	}

	cmd.AddCommand(
		snapshotSaveCmd(flags),
		snapshotListCmd(flags),
		snapshotShowCmd(flags),
		snapshotRmCmd(flags),
	)
	return cmd
}

// withStore loads the config, opens the store and runs fn.
func withStore(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, store snapshot.Store) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, store)
}

func snapshotSaveCmd(flags *globalFlags) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a snapshot of a running server or of the demo tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, store snapshot.Store) error {
				var (
					snap *reconciler.TreeSnapshot
					err  error
				)
				if from != "" {
					snap, err = fetchTree(ctx, from)
				} else {
					snap, err = demoTree()
				}
				if err != nil {
					return err
				}
				id, err := store.Save(ctx, snap)
				if err != nil {
					return err
				}
				success("Saved snapshot %s", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Devtools URL of a running 'reactor serve'")

	return cmd
}

func snapshotListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, store snapshot.Store) error {
				infos, err := store.List(ctx)
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					info("No snapshots")
					return nil
				}
				for _, in := range infos {
					fmt.Printf("%s  %s  %6d bytes\n", in.ID, in.Taken.Local().Format(time.DateTime), in.Size)
				}
				return nil
			})
		},
	}
}

func snapshotShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, store snapshot.Store) error {
				snap, err := store.Load(ctx, args[0])
				if err != nil {
					return notFound(args[0], err)
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			})
		},
	}
}

func snapshotRmCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, flags, func(ctx context.Context, store snapshot.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return notFound(args[0], err)
				}
				success("Deleted snapshot %s", args[0])
				return nil
			})
		},
	}
}

// fetchTree reads the current tree from a devtools server.
func fetchTree(ctx context.Context, base string) (*reconciler.TreeSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/tree", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", req.URL, resp.Status)
	}

	var snap reconciler.TreeSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &snap, nil
}

// demoTree mounts the counter demo and captures it.
func demoTree() (*reconciler.TreeSnapshot, error) {
	ren := vtest.NewRenderer()
	r := reconciler.New(ren)
	if _, err := r.Mount(vdom.C(counterApp, nil), ren.Root); err != nil {
		return nil, err
	}
	return r.Snapshot(), nil
}
