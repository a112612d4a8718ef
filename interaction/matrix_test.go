package interaction

import (
	"math"
	"testing"

	"github.com/rushteam/lmsrec/core"
)

func TestRecord_Score(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want float64
	}{
		{name: "no interaction", rec: Record{}, want: 0},
		{name: "purchased only", rec: Record{Purchased: 1}, want: 5},
		{name: "half progress", rec: Record{Progress: 0.5}, want: 5},
		{name: "purchased and finished", rec: Record{Purchased: 1, Progress: 1}, want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Score(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuild_EmptyInputs(t *testing.T) {
	courses := []core.Course{{ID: "c1"}}
	users := []core.User{{ID: "u1"}}

	if m := Build(nil, users); !m.Empty() {
		t.Error("Build(nil courses) should be empty")
	}
	if m := Build(courses, nil); !m.Empty() {
		t.Error("Build(nil users) should be empty")
	}
	if _, ok := Build(nil, nil).UserIndex("u1"); ok {
		t.Error("empty matrix should not index users")
	}
}

func TestBuild_DenseScores(t *testing.T) {
	courses := []core.Course{{ID: "c2"}, {ID: "c1"}, {ID: "c3"}}
	users := []core.User{
		{
			ID:      "u2",
			Courses: []string{"c1"},
			Progress: []core.CourseProgress{
				{CourseID: "c1", Chapters: []bool{true, true, false, false}},
				{CourseID: "c3", Chapters: []bool{true}},
				{CourseID: "c2", Chapters: nil},
			},
		},
		{ID: "u1"},
	}

	m := Build(courses, users)
	if m.Empty() {
		t.Fatal("matrix should not be empty")
	}
	if got := m.UserIDs(); len(got) != 2 || got[0] != "u1" || got[1] != "u2" {
		t.Errorf("UserIDs() = %v, want sorted [u1 u2]", got)
	}
	if got := m.CourseIDs(); len(got) != 3 || got[0] != "c1" || got[2] != "c3" {
		t.Errorf("CourseIDs() = %v, want sorted [c1 c2 c3]", got)
	}

	cases := []struct {
		user, course string
		want         float64
	}{
		{"u2", "c1", 5 + 0.5*10},
		{"u2", "c3", 10},
		{"u2", "c2", 0},
		{"u1", "c1", 0},
		{"unknown", "c1", 0},
	}
	for _, c := range cases {
		if got := m.Get(c.user, c.course); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Get(%s, %s) = %v, want %v", c.user, c.course, got, c.want)
		}
	}

	i, _ := m.UserIndex("u2")
	if got := m.Interacted(i); len(got) != 2 {
		t.Errorf("Interacted(u2) = %v, want 2 courses", got)
	}
}

func TestBuildRecords_EveryPairOnce(t *testing.T) {
	courses := []core.Course{{ID: "a"}, {ID: "b"}}
	users := []core.User{{ID: "x"}, {ID: "y"}, {ID: "z"}}

	records := BuildRecords(courses, users)
	if len(records) != 6 {
		t.Fatalf("len(records) = %d, want 6", len(records))
	}
	seen := make(map[[2]string]int)
	for _, r := range records {
		seen[[2]string{r.UserID, r.CourseID}]++
	}
	for pair, n := range seen {
		if n != 1 {
			t.Errorf("pair %v appears %d times", pair, n)
		}
	}
}
