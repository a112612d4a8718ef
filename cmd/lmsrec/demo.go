package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/hybrid"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print sample recommendations for the first user and course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src, s, err := openSource(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			recOpts, err := recommenderOptions(opts.cfg, s)
			if err != nil {
				return err
			}
			return runDemo(ctx, cmd.OutOrStdout(), src, limit, recOpts...)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "number of courses per list")
	return cmd
}

func runDemo(ctx context.Context, w io.Writer, src dataset.Source, limit int, opts ...hybrid.Option) error {
	fmt.Fprintln(w, "===== LMS RECOMMENDER DEMO =====")

	rec, err := hybrid.New(ctx, dataset.Shared(src), opts...)
	if err != nil {
		return err
	}
	defer rec.Close(ctx)

	courses := rec.Courses().All()
	users := rec.Users()
	if len(courses) == 0 || len(users) == 0 {
		fmt.Fprintln(w, "No users or courses found.")
		return nil
	}
	userID, course := users[0].ID, courses[0]
	fmt.Fprintf(w, "Sample user: %s\nSample course: %s\n", userID, course.ID)

	personalized, err := rec.Recommend(ctx, userID, limit)
	if err != nil {
		return err
	}
	printSection(w, fmt.Sprintf("PERSONALIZED RECOMMENDATIONS for %s", userID), personalized)

	similar, err := rec.RecommendSimilarToCourse(ctx, course.ID, limit)
	if err != nil {
		return err
	}
	printSection(w, fmt.Sprintf("SIMILAR COURSES to %s", course.Name), similar)

	popular, err := rec.RecommendPopularCourses(ctx, limit)
	if err != nil {
		return err
	}
	printSection(w, "POPULAR COURSES", popular)
	return nil
}

func printSection(w io.Writer, title string, courses []core.Course) {
	fmt.Fprintf(w, "\n===== %s =====\n", title)
	if len(courses) == 0 {
		fmt.Fprintln(w, "No courses found.")
		return
	}
	for _, c := range courses {
		printCourse(w, c)
	}
}

func printCourse(w io.Writer, c core.Course) {
	fmt.Fprintf(w, "ID: %s\n", c.ID)
	fmt.Fprintf(w, "Name: %s\n", c.Name)
	fmt.Fprintf(w, "Level: %s\n", orNA(c.Level))
	fmt.Fprintf(w, "Categories: %s\n", orNA(c.Categories))
	fmt.Fprintf(w, "Tags: %s\n", orNA(c.Tags))
	if c.Rating != nil {
		fmt.Fprintf(w, "Ratings: %.1f\n", *c.Rating)
	} else {
		fmt.Fprintln(w, "Ratings: N/A")
	}
	if c.Purchased != nil {
		fmt.Fprintf(w, "Purchased: %d\n", *c.Purchased)
	} else {
		fmt.Fprintln(w, "Purchased: N/A")
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
