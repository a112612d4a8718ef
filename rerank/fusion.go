// Package rerank 提供候选列表的融合与重排：名次衰减融合、多样性、Top-N 截断。
package rerank

import (
	"math"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pkg/utils"
)

const (
	decayStep  = 0.1
	decayFloor = 0.1
)

// RankDecay 返回第 i 名（从 0 开始）的名次权重：max(1 - 0.1i, 0.1)。
// 随名次单调不增，第 9 名及以后恒为 0.1。
func RankDecay(i int) float64 {
	if i < 0 {
		i = 0
	}
	return math.Max(1-float64(i)*decayStep, decayFloor)
}

// WeightedList 是一个参与融合的有序候选列表。
type WeightedList struct {
	Name   string
	Weight float64
	Items  []*core.Item
}

// Fuse 按名次衰减融合多个列表：score[c] += weight × RankDecay(rank)。
// 列表顺序决定同分时的先后（先出现者在前），返回前 n 个（n <= 0 表示全部）。
// 原始分数被丢弃，只有名次参与融合。
func Fuse(lists []WeightedList, n int) []*core.Item {
	board := core.NewScoreBoard()
	for _, l := range lists {
		for rank, it := range l.Items {
			if it == nil {
				continue
			}
			fused := board.Add(it.ID, l.Weight*RankDecay(rank))
			if l.Name != "" {
				fused.PutLabel("recall_source", utils.Label{Value: l.Name, Source: "hybrid"})
			}
			for k, v := range it.Meta {
				if _, ok := fused.Meta[k]; !ok {
					fused.Meta[k] = v
				}
			}
			for k, v := range it.Labels {
				if k == "recall_source" {
					continue
				}
				fused.PutLabel(k, v)
			}
		}
	}
	return board.Top(n)
}
