// Package filter 在融合之后剔除候选：黑名单、用户拉黑、CEL 表达式。
package filter

import (
	"context"

	"github.com/rushteam/lmsrec/core"
)

// Filter 判断一个候选是否应该被过滤。true 表示移除。
type Filter interface {
	Name() string

	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
