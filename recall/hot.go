package recall

import (
	"context"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pipeline"
)

const (
	popularityRatingWeight    = 0.7
	popularityPurchasedWeight = 0.3
)

// Hot 是与用户无关的热门召回：popularity = rating×0.7 + purchased×0.3（缺失按 0）。
// 是冷启动/无信号时由调用方显式使用的兜底排序，混合推荐内部不会自动回退到它。
// Hot 同时实现了 Source 和 Node 接口。
type Hot struct {
	Courses []core.Course
}

func (r *Hot) Name() string        { return "recall.hot" }
func (r *Hot) Kind() pipeline.Kind { return pipeline.KindRecall }

// Popularity 返回课程的热度分。
func Popularity(c core.Course) float64 {
	return c.RatingValue()*popularityRatingWeight + c.PurchasedValue()*popularityPurchasedWeight
}

// PopularCourses 按热度降序返回前 n 门课程，同分保持课程原始顺序。
func (r *Hot) PopularCourses(n int) []*core.Item {
	if n <= 0 || len(r.Courses) == 0 {
		return nil
	}
	board := core.NewScoreBoard()
	for _, c := range r.Courses {
		if board.Has(c.ID) {
			continue
		}
		board.Add(c.ID, Popularity(c))
	}
	return labelSource(board.Top(n), "hot")
}

// Recall 实现 Source 接口
func (r *Hot) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	n := 0
	if rctx != nil {
		n = rctx.Limit
	}
	return r.PopularCourses(n), nil
}

// Process 实现 Node 接口，直接调用 Recall
func (r *Hot) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}
