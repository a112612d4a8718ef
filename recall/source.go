package recall

import (
	"context"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pipeline"
)

// Source 表示一个可复用的召回源（协同过滤/内容/热门）。
// 召回条数取 rctx.Limit。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// UserBasedCF 把 CFEngine 的 User-CF 包装为召回源。
type UserBasedCF struct {
	Engine *CFEngine
}

func (r *UserBasedCF) Name() string { return "recall.u2i" }

func (r *UserBasedCF) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	return r.Engine.RecommendUserBased(rctx.UserID, rctx.Limit), nil
}

// ItemBasedCF 把 CFEngine 的 Item-CF 包装为召回源。
type ItemBasedCF struct {
	Engine *CFEngine
}

func (r *ItemBasedCF) Name() string { return "recall.i2i" }

func (r *ItemBasedCF) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	return r.Engine.RecommendItemBased(rctx.UserID, rctx.Limit), nil
}

// ContentForUser 把 ContentEngine 的用户内容推荐包装为召回源。
type ContentForUser struct {
	Engine *ContentEngine
}

func (r *ContentForUser) Name() string { return "recall.content" }

func (r *ContentForUser) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	return r.Engine.RecommendForUser(rctx.UserID, rctx.Limit), nil
}

// SimilarCourses 是 similar 场景的召回源：与 rctx.CourseID 相似的课程。
// 同时实现了 Source 和 Node 接口。
type SimilarCourses struct {
	Engine *ContentEngine
}

func (r *SimilarCourses) Name() string        { return "recall.similar" }
func (r *SimilarCourses) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *SimilarCourses) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *SimilarCourses) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil || rctx.CourseID == "" {
		return nil, nil
	}
	return r.Engine.RecommendSimilarCourses(rctx.CourseID, rctx.Limit), nil
}
