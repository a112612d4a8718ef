package core

import "github.com/rushteam/lmsrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：课程 ID、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID       string
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// MetaStrings 读取 Meta 中的字符串列表（例如 matching_topics），不存在时返回 nil。
func (it *Item) MetaStrings(key string) []string {
	if it == nil || it.Meta == nil {
		return nil
	}
	v, _ := it.Meta[key].([]string)
	return v
}

// ItemIDs 按顺序提取 ID。
func ItemIDs(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.ID)
	}
	return out
}
