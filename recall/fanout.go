package recall

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pipeline"
	"github.com/rushteam/lmsrec/pkg/logging"
	"github.com/rushteam/lmsrec/rerank"
)

// DefaultCandidateFactor 是每个召回源相对最终条数的候选倍数。
const DefaultCandidateFactor = 2

// WeightedSource 是参与融合的召回源及其权重。
type WeightedSource struct {
	Source Source
	Weight float64
}

// Fanout 是一个 Recall Node：依次执行各召回源（每个取 Limit×CandidateFactor 条），
// 再按名次衰减加权融合（rerank.Fuse），返回前 Limit 条（Keep 非零时按 Keep）。
//
// 召回源出错时按空结果处理，不中断其他召回源。
// 召回源按顺序执行，引擎本身不支持并发访问。
type Fanout struct {
	Sources         []WeightedSource
	CandidateFactor int

	// Keep 是融合后保留的条数：0 表示 rctx.Limit，负数表示全部保留，交给后续节点截断
	Keep int

	Logger *zerolog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 || rctx == nil || rctx.Limit <= 0 {
		return nil, nil
	}

	log := logging.With("recall.fanout")
	if n.Logger != nil {
		log = *n.Logger
	}

	factor := n.CandidateFactor
	if factor <= 0 {
		factor = DefaultCandidateFactor
	}
	sub := *rctx
	sub.Limit = rctx.Limit * factor

	lists := make([]rerank.WeightedList, 0, len(n.Sources))
	for _, ws := range n.Sources {
		if ws.Source == nil {
			continue
		}
		items, err := ws.Source.Recall(ctx, &sub)
		if err != nil {
			log.Warn().Err(err).Str("source", ws.Source.Name()).Msg("recall source failed, treated as empty")
			items = nil
		}
		log.Debug().Str("source", ws.Source.Name()).Int("items", len(items)).Msg("recall source done")
		lists = append(lists, rerank.WeightedList{
			Name:   ws.Source.Name(),
			Weight: ws.Weight,
			Items:  items,
		})
	}
	keep := rctx.Limit
	if n.Keep != 0 {
		keep = n.Keep
	}
	return rerank.Fuse(lists, keep), nil
}
