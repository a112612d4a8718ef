package rerank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pkg/utils"
)

func TestRankDecay(t *testing.T) {
	tests := []struct {
		rank int
		want float64
	}{
		{rank: 0, want: 1},
		{rank: 1, want: 0.9},
		{rank: 5, want: 0.5},
		{rank: 8, want: 0.2},
		{rank: 9, want: 0.1},
		{rank: 10, want: 0.1},
		{rank: 50, want: 0.1},
		{rank: -3, want: 1},
	}
	for _, tt := range tests {
		if got := RankDecay(tt.rank); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RankDecay(%d) = %v, want %v", tt.rank, got, tt.want)
		}
	}
}

func TestRankDecay_MonotoneWithFloor(t *testing.T) {
	prev := RankDecay(0)
	for i := 1; i < 40; i++ {
		cur := RankDecay(i)
		if cur > prev {
			t.Errorf("RankDecay(%d) = %v > RankDecay(%d) = %v", i, cur, i-1, prev)
		}
		if cur < 0.1 {
			t.Errorf("RankDecay(%d) = %v below floor", i, cur)
		}
		prev = cur
	}
}

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func TestFuse(t *testing.T) {
	got := Fuse([]WeightedList{
		{Name: "i2i", Weight: 0.6, Items: items("x", "y")},
		{Name: "u2i", Weight: 0.48, Items: items("y", "z")},
		{Name: "content", Weight: 0.4, Items: items("z")},
	}, 0)

	want := []struct {
		id    string
		score float64
	}{
		{"y", 0.6*0.9 + 0.48},
		{"z", 0.48*0.9 + 0.4},
		{"x", 0.6},
	}
	if len(got) != len(want) {
		t.Fatalf("Fuse() = %v", core.ItemIDs(got))
	}
	for i, w := range want {
		if got[i].ID != w.id || math.Abs(got[i].Score-w.score) > 1e-12 {
			t.Errorf("rank %d = (%s, %v), want (%s, %v)", i, got[i].ID, got[i].Score, w.id, w.score)
		}
	}
	if lbl := got[0].Labels["recall_source"]; lbl.Value != "i2i|u2i" {
		t.Errorf("recall_source = %q, want i2i|u2i", lbl.Value)
	}
}

func TestFuse_TiesKeepFirstSeenAndTruncate(t *testing.T) {
	got := Fuse([]WeightedList{
		{Weight: 1, Items: items("a")},
		{Weight: 1, Items: items("b")},
		{Weight: 1, Items: items("c")},
	}, 2)
	if ids := core.ItemIDs(got); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Fuse() = %v, want [a b]", ids)
	}
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		limit int
		want  int
	}{
		{name: "explicit N", n: 2, want: 2},
		{name: "falls back to limit", limit: 3, want: 3},
		{name: "no truncation", want: 5},
		{name: "N larger than items", n: 10, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			got, err := node.Process(context.Background(), &core.RecommendContext{Limit: tt.limit}, items("a", "b", "c", "d", "e"))
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	in := items("a", "b", "c", "d")
	in[0].PutLabel("category", utils.Label{Value: "web"})
	in[1].PutLabel("category", utils.Label{Value: "web"})
	in[2].Meta["category"] = "data"
	// d 没有类别

	tests := []struct {
		name string
		node *Diversity
		want []string
	}{
		{name: "drop overflow", node: &Diversity{}, want: []string{"a", "c", "d"}},
		{name: "backfill overflow", node: &Diversity{Backfill: true}, want: []string{"a", "c", "d", "b"}},
		{name: "two per category", node: &Diversity{MaxPerValue: 2}, want: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := tt.node.Process(context.Background(), nil, in)
			ids := core.ItemIDs(got)
			if len(ids) != len(tt.want) {
				t.Fatalf("Process() = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("Process() = %v, want %v", ids, tt.want)
					break
				}
			}
		})
	}
}
