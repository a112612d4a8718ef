package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pipeline"
	"github.com/rushteam/lmsrec/pkg/logging"
)

// FilterNode 组合多个过滤器，任一过滤器返回 true 即移除该候选。
// 过滤器出错时记录日志并视为不过滤。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	log := logging.With("filter")
	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if reason := n.match(ctx, &log, rctx, item); reason != "" {
			log.Debug().Str("course_id", item.ID).Str("filter", reason).Msg("candidate filtered")
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (n *FilterNode) match(ctx context.Context, log *zerolog.Logger, rctx *core.RecommendContext, item *core.Item) string {
	for _, f := range n.Filters {
		drop, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			log.Warn().Err(err).Str("filter", f.Name()).Msg("filter failed, candidate kept")
			continue
		}
		if drop {
			return f.Name()
		}
	}
	return ""
}
