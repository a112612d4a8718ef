package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/store"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy the MongoDB dataset into a Redis snapshot (or a JSON file with --out)",
		Example: `  lmsrec snapshot
  lmsrec snapshot --out courses.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg

			src, err := dataset.NewMongoSource(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			if out != "" {
				ds, err := dataset.Load(ctx, src)
				if err != nil {
					return err
				}
				if err := dataset.WriteFile(out, ds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d courses, %d users to %s\n", len(ds.Courses), len(ds.Users), out)
				return nil
			}

			rs, err := store.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.DB)
			if err != nil {
				return err
			}
			dst := dataset.NewStoreSource(rs, cfg.Redis.KeyPrefix)
			defer dst.Close(ctx)

			ds, err := dataset.Snapshot(ctx, src, dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d courses, %d users to %s and %s\n",
				len(ds.Courses), len(ds.Users), dst.CoursesKey(), dst.UsersKey())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write a JSON dataset file instead of Redis")
	return cmd
}
