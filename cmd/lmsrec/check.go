package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rushteam/lmsrec/dataset"
)

const sampleRows = 5

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the data source connection and print sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src, _, err := openSource(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer src.Close(ctx)
			return runCheck(ctx, cmd.OutOrStdout(), src)
		},
	}
}

func runCheck(ctx context.Context, w io.Writer, src dataset.Source) error {
	ok, msg := src.CheckConnection(ctx)
	fmt.Fprintf(w, "1. Connection status (%s): %s\n", src.Name(), msg)
	if !ok {
		return fmt.Errorf("data source %s is not reachable", src.Name())
	}

	if m, isMongo := src.(*dataset.MongoSource); isMongo {
		courses, users, err := m.Counts(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "   database %s: %d courses, %d users\n", m.Database(), courses, users)
	}

	ds, err := dataset.Load(ctx, src)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n2. Courses: %d\n", len(ds.Courses))
	for i, c := range ds.Courses {
		if i == sampleRows {
			break
		}
		fmt.Fprintf(w, "   %s  %s  level=%s  ratings=%v  purchased=%v\n", c.ID, c.Name, orNA(c.Level), c.RatingValue(), c.PurchasedValue())
	}

	fmt.Fprintf(w, "\n3. Users: %d\n", len(ds.Users))
	for i, u := range ds.Users {
		if i == sampleRows {
			break
		}
		fmt.Fprintf(w, "   %s  %s  courses=%d  progress=%d\n", u.ID, u.Name, len(u.Courses), len(u.Progress))
	}
	return nil
}
