package utils

import "strings"

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由业务自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / rerank / filter / hybrid ...
}

// ValueSeparator 是合并 Label.Value 时使用的分隔符。
const ValueSeparator = "|"

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积，已存在的值不重复追加
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	if !containsPart(existing.Value, incoming.Value, ValueSeparator) {
		merged.Value = existing.Value + ValueSeparator + incoming.Value
	}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "" || containsPart(existing.Source, incoming.Source, ","):
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// Values 把合并后的 Value 拆回各个部分。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, ValueSeparator)
}

func containsPart(joined, part, sep string) bool {
	for _, p := range strings.Split(joined, sep) {
		if p == part {
			return true
		}
	}
	return false
}
