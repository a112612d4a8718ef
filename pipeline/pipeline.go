package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pkg/logging"
)

// Pipeline 顺序执行 Node 链，任一 Node 出错即中止。
type Pipeline struct {
	Nodes []Node
}

// Append 在末尾追加 Node，返回新的 Pipeline。
func (p *Pipeline) Append(nodes ...Node) *Pipeline {
	out := &Pipeline{}
	if p != nil {
		out.Nodes = append(out.Nodes, p.Nodes...)
	}
	out.Nodes = append(out.Nodes, nodes...)
	return out
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if p == nil {
		return items, nil
	}
	log := logging.With("pipeline")
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		log.Debug().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Msg("node processed")
		cur = next
	}
	return cur, nil
}
