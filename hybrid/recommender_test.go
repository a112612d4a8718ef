package hybrid

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/pipeline"
)

func ptr[T any](v T) *T { return &v }

func courseIDs(courses []core.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.ID)
	}
	return out
}

func catalog() []core.Course {
	return []core.Course{
		{ID: "c1", Name: "Python for Data Analysis", Categories: "Data", Description: "Learn pandas and numpy", Rating: ptr(5.0), Purchased: ptr(1)},
		{ID: "c2", Name: "Advanced Python", Categories: "Data", Description: "Generators, asyncio and numpy internals", Rating: ptr(4.0), Purchased: ptr(10)},
		{ID: "c3", Name: "Watercolor painting", Categories: "Art", Description: "Brushes and colors"},
		{ID: "c4", Name: "Machine Learning with Python", Categories: "Data", Level: "Advanced", Description: "Regression with scikit and pandas"},
		{ID: "c5", Name: "Docker in practice", Categories: "Ops", Description: "Containers and kubernetes basics"},
	}
}

func TestRecommend_CollaborativeSignalWins(t *testing.T) {
	ds := &dataset.Dataset{
		Courses: catalog(),
		Users: []core.User{
			{ID: "u1", Courses: []string{"c1"}},
			{ID: "u2", Courses: []string{"c1", "c2"}},
			{ID: "u3", Courses: []string{"c3"}},
		},
	}
	r := NewFromDataset(ds)

	got, err := r.Recommend(context.Background(), "u1", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) == 0 || got[0].ID != "c2" {
		t.Fatalf("Recommend(u1) = %v, want c2 first", courseIDs(got))
	}
	for _, c := range got {
		if c.ID == "c1" {
			t.Errorf("purchased course c1 recommended: %v", courseIDs(got))
		}
	}
	if got[0].Name != "Advanced Python" {
		t.Errorf("course detail not resolved: %+v", got[0])
	}
}

func TestRecommend_ContentOnlyFollowsContentOrder(t *testing.T) {
	ds := &dataset.Dataset{
		Courses: catalog(),
		Users:   []core.User{{ID: "u1", Courses: []string{"c1"}}},
	}
	const n = 3

	want := NewFromDataset(ds).Content().RecommendForUser("u1", 2*n)
	if len(want) < n {
		t.Fatalf("content produced %d candidates", len(want))
	}
	wantIDs := core.ItemIDs(want[:n])

	got, err := NewFromDataset(ds).Recommend(context.Background(), "u1", n)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if ids := courseIDs(got); !reflect.DeepEqual(ids, wantIDs) {
		t.Errorf("Recommend(u1) = %v, want content order %v", ids, wantIDs)
	}
}

func TestRecommend_NoSignal(t *testing.T) {
	ds := &dataset.Dataset{
		Courses: catalog(),
		Users:   []core.User{{ID: "u1", Courses: []string{"c1"}}, {ID: "u2"}},
	}
	r := NewFromDataset(ds)

	for _, userID := range []string{"u2", "nobody"} {
		got, err := r.Recommend(context.Background(), userID, 5)
		if err != nil {
			t.Fatalf("Recommend(%s) error = %v", userID, err)
		}
		if len(got) != 0 {
			t.Errorf("Recommend(%s) = %v, want empty", userID, courseIDs(got))
		}
	}

	if got, _ := r.Recommend(context.Background(), "u1", 0); len(got) != 0 {
		t.Errorf("Recommend(n=0) = %v, want empty", courseIDs(got))
	}
}

func TestRecommend_EmptyDataset(t *testing.T) {
	r := NewFromDataset(nil)
	got, err := r.Recommend(context.Background(), "u1", 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("Recommend() = %v, %v; want empty", courseIDs(got), err)
	}
	if got, _ := r.RecommendPopularCourses(context.Background(), 5); len(got) != 0 {
		t.Errorf("RecommendPopularCourses() = %v, want empty", courseIDs(got))
	}
}

func TestRecommend_PostPipeline(t *testing.T) {
	ds := &dataset.Dataset{
		Courses: catalog(),
		Users:   []core.User{{ID: "u1", Courses: []string{"c1"}}},
	}
	drop := pipeline.NodeFunc{
		NodeName: "test.drop_data",
		NodeKind: pipeline.KindFilter,
		Fn: func(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
			out := items[:0]
			for _, it := range items {
				if it.Labels[LabelCategory].Value != "Data" {
					out = append(out, it)
				}
			}
			return out, nil
		},
	}
	r := NewFromDataset(ds, WithPostPipeline((&pipeline.Pipeline{}).Append(drop)))

	got, err := r.Recommend(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recommend() = %v, want 2 non-Data courses", courseIDs(got))
	}
	for _, c := range got {
		if c.Categories == "Data" {
			t.Errorf("Data course %s survived filter", c.ID)
		}
	}
}

func TestRecommend_PipelineErrorPropagates(t *testing.T) {
	ds := &dataset.Dataset{
		Courses: catalog(),
		Users:   []core.User{{ID: "u1", Courses: []string{"c1"}}},
	}
	boom := errors.New("boom")
	fail := pipeline.NodeFunc{
		NodeName: "test.fail",
		NodeKind: pipeline.KindFilter,
		Fn: func(context.Context, *core.RecommendContext, []*core.Item) ([]*core.Item, error) {
			return nil, boom
		},
	}
	r := NewFromDataset(ds, WithPostPipeline((&pipeline.Pipeline{}).Append(fail)))
	if _, err := r.Recommend(context.Background(), "u1", 2); !errors.Is(err, boom) {
		t.Fatalf("Recommend() error = %v, want boom", err)
	}
}

func TestRecommendSimilarToCourse(t *testing.T) {
	r := NewFromDataset(&dataset.Dataset{Courses: catalog()})
	ctx := context.Background()

	got, err := r.RecommendSimilarToCourse(ctx, "c1", 2)
	if err != nil {
		t.Fatalf("RecommendSimilarToCourse() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RecommendSimilarToCourse(c1) = %v, want 2 courses", courseIDs(got))
	}
	for _, c := range got {
		if c.ID == "c1" {
			t.Errorf("source course returned: %v", courseIDs(got))
		}
	}

	want := core.ItemIDs(r.Content().RecommendSimilarCourses("c1", 2))
	if ids := courseIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("RecommendSimilarToCourse(c1) = %v, want content order %v", ids, want)
	}

	if got, _ := r.RecommendSimilarToCourse(ctx, "missing", 2); len(got) != 0 {
		t.Errorf("unknown course = %v, want empty", courseIDs(got))
	}
	if got, _ := r.RecommendSimilarToCourse(ctx, "c1", 0); len(got) != 0 {
		t.Errorf("zero limit = %v, want empty", courseIDs(got))
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.RecommendSimilarToCourse(cancelled, "c1", 2); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}

func TestRecommendPopularCourses(t *testing.T) {
	r := NewFromDataset(&dataset.Dataset{Courses: catalog()})

	got, err := r.RecommendPopularCourses(context.Background(), 3)
	if err != nil {
		t.Fatalf("RecommendPopularCourses() error = %v", err)
	}
	// c2: 4×0.7+10×0.3=5.8, c1: 5×0.7+1×0.3=3.8, 其余为 0 且保持原始顺序
	want := []string{"c2", "c1", "c3"}
	if ids := courseIDs(got); !reflect.DeepEqual(ids, want) {
		t.Errorf("RecommendPopularCourses() = %v, want %v", ids, want)
	}
}

func TestNew_SourceFailure(t *testing.T) {
	src := &dataset.StaticSource{Err: errors.New("connection refused")}
	if _, err := New(context.Background(), src); !errors.Is(err, core.ErrDatasetUnavailable) {
		t.Fatalf("New() error = %v, want dataset unavailable", err)
	}
}

type closingSource struct {
	dataset.StaticSource
	closed bool
}

func (s *closingSource) Close(context.Context) error {
	s.closed = true
	return nil
}

func TestClose(t *testing.T) {
	src := &closingSource{StaticSource: dataset.StaticSource{Courses: catalog()}}
	r, err := New(context.Background(), src)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.closed {
		t.Error("source not closed")
	}

	shared := &closingSource{}
	r, _ = New(context.Background(), dataset.Shared(shared))
	_ = r.Close(context.Background())
	if shared.closed {
		t.Error("shared source was closed")
	}
}

func TestEnrichLabels(t *testing.T) {
	r := NewFromDataset(&dataset.Dataset{Courses: catalog()})
	items := []*core.Item{core.NewItem("c4"), core.NewItem("unknown")}
	out, err := r.enrich(context.Background(), nil, items)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Labels[LabelCategory].Value != "Data" || out[0].Labels[LabelLevel].Value != "Advanced" {
		t.Errorf("labels = %+v", out[0].Labels)
	}
	if len(out[1].Labels) != 0 {
		t.Errorf("unknown course labelled: %+v", out[1].Labels)
	}
}
