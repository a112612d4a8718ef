// Package pipeline 把推荐后处理拆成可组合的 Node 链：召回融合 -> 过滤 -> 重排 -> 截断。
package pipeline

import (
	"context"

	"github.com/rushteam/lmsrec/core"
)

// Kind 用于标记 Node 所处阶段，方便日志与指标按阶段区分。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回/融合：生成候选集
	KindFilter      Kind = "filter"      // 过滤：剔除不符合约束的候选
	KindReRank      Kind = "rerank"      // 重排：多样性、截断
	KindPostProcess Kind = "postprocess" // 后处理：补充标签等
)

// Node 是 Pipeline 的最小单元，统一为“输入 items -> 输出 items”。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

// NodeFunc 把普通函数适配为 Node。
type NodeFunc struct {
	NodeName string
	NodeKind Kind
	Fn       func(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error)
}

func (n NodeFunc) Name() string { return n.NodeName }
func (n NodeFunc) Kind() Kind   { return n.NodeKind }

func (n NodeFunc) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.Fn(ctx, rctx, items)
}
