package rerank

import (
	"context"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pipeline"
)

// Diversity 按类别打散：同一类别最多保留 MaxPerValue 个在前面。
// 类别来源优先级：label[LabelKey].Value，其次 meta[LabelKey]（string）。
// 超出上限的候选在 Backfill 为 true 时按原顺序追加到末尾，否则丢弃。
type Diversity struct {
	LabelKey    string // 默认 "category"
	MaxPerValue int    // 默认 1
	Backfill    bool
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "category"
	}
	limit := n.MaxPerValue
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))
	var overflow []*core.Item

	for _, it := range items {
		if it == nil {
			continue
		}
		cate := categoryOf(it, key)
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			overflow = append(overflow, it)
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	if n.Backfill {
		out = append(out, overflow...)
	}
	return out, nil
}

func categoryOf(it *core.Item, key string) string {
	if lbl, ok := it.Labels[key]; ok && lbl.Value != "" {
		return lbl.Value
	}
	if s, ok := it.Meta[key].(string); ok {
		return s
	}
	return ""
}
