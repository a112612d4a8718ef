// Package lmsrec 是在线学习平台的课程混合推荐引擎。
//
// 设计要点：
// - 三路召回：Item-CF、User-CF（购买 + 学习进度）与 TF-IDF 内容相似（技术主题加权）
// - 名次衰减融合：每路只看名次不看原始分，任何一路为空都不影响其余两路
// - Pipeline 后处理：融合之后可挂过滤、多样性等 Node，由 YAML 配置驱动
// - 惰性训练：引擎第一次查询时训练，之后只读；数据变化需要新建实例
//
// 示例：
//
//	rec, err := lmsrec.New(ctx, dataset.NewStaticSource(ds))
//	if err != nil { ... }
//	defer rec.Close(ctx)
//	courses, err := rec.Recommend(ctx, "u1", 5)
package lmsrec

import (
	"context"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/hybrid"
	"github.com/rushteam/lmsrec/pipeline"
)

// 轻量 facade：便于直接 import "lmsrec" 使用核心抽象。
type (
	Recommender = hybrid.Recommender
	Option      = hybrid.Option
	Course      = core.Course
	User        = core.User
	Dataset     = dataset.Dataset
	Source      = dataset.Source
	Pipeline    = pipeline.Pipeline
	Node        = pipeline.Node
	Kind        = pipeline.Kind
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// New 从数据源加载数据并创建混合推荐器。
func New(ctx context.Context, src Source, opts ...Option) (*Recommender, error) {
	return hybrid.New(ctx, src, opts...)
}
