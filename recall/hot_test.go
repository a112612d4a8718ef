package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/lmsrec/core"
)

func TestHot_PopularCourses(t *testing.T) {
	courses := []core.Course{
		{ID: "a", Rating: ptr(4.0), Purchased: ptr(10)},
		{ID: "b"},
		{ID: "c", Rating: ptr(5.0), Purchased: ptr(0)},
		{ID: "d", Rating: ptr(4.0), Purchased: ptr(10)},
	}
	hot := &Hot{Courses: courses}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "ties keep course order", n: 3, want: []string{"a", "d", "c"}},
		{name: "all", n: 10, want: []string{"a", "d", "c", "b"}},
		{name: "zero", n: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ItemIDs(hot.PopularCourses(tt.n))
			if len(got) != len(tt.want) {
				t.Fatalf("PopularCourses(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PopularCourses(%d) = %v, want %v", tt.n, got, tt.want)
					break
				}
			}
		})
	}
}

func TestHot_SortedByPopularity(t *testing.T) {
	courses := []core.Course{
		{ID: "x", Rating: ptr(3.2), Purchased: ptr(4)},
		{ID: "y", Purchased: ptr(20)},
		{ID: "z", Rating: ptr(4.9)},
	}
	items, err := (&Hot{Courses: courses}).Recall(context.Background(), &core.RecommendContext{Limit: 3})
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Score < items[i].Score {
			t.Errorf("not sorted: %v then %v", items[i-1].Score, items[i].Score)
		}
	}
	if want := 0.7*3.2 + 0.3*4; math.Abs(Popularity(courses[0])-want) > 1e-12 {
		t.Errorf("Popularity(x) = %v, want %v", Popularity(courses[0]), want)
	}
}
