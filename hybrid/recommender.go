// Package hybrid 组合协同过滤与内容推荐：三路召回按名次衰减加权融合，
// 另外提供相似课程与热门课程两个入口。
//
// Recommender 不是并发安全的，每个请求创建一个新实例；
// 数据源（dataset.Source）可以在实例之间共享。
package hybrid

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/metrics"
	"github.com/rushteam/lmsrec/pipeline"
	"github.com/rushteam/lmsrec/pkg/logging"
	"github.com/rushteam/lmsrec/pkg/utils"
	"github.com/rushteam/lmsrec/recall"
	"github.com/rushteam/lmsrec/rerank"
)

const (
	// userCFDiscount 是 User-CF 相对 Item-CF 的权重折扣
	userCFDiscount = 0.8

	SceneUser    = "user"
	SceneSimilar = "similar"
	ScenePopular = "popular"

	// LabelCategory / LabelLevel 是融合后写入候选的课程标签，供过滤与多样性节点使用
	LabelCategory = "category"
	LabelLevel    = "level"
)

// Recommender 是混合推荐器。
type Recommender struct {
	src     dataset.Source
	courses *core.CourseIndex
	users   []core.User

	cf      *recall.CFEngine
	content *recall.ContentEngine
	hot     *recall.Hot

	collabWeight  float64
	contentWeight float64
	topK          int
	topicBoost    float64
	post          *pipeline.Pipeline
	logger        zerolog.Logger
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithWeights 设置协同过滤与内容推荐的融合权重。
func WithWeights(collab, content float64) Option {
	return func(r *Recommender) {
		r.collabWeight = collab
		r.contentWeight = content
	}
}

func WithTopKNeighbors(k int) Option {
	return func(r *Recommender) {
		if k > 0 {
			r.topK = k
		}
	}
}

func WithTopicBoost(boost float64) Option {
	return func(r *Recommender) {
		if boost > 0 {
			r.topicBoost = boost
		}
	}
}

// WithPostPipeline 设置融合之后、截断之前执行的 Pipeline（过滤、多样性等）。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(r *Recommender) { r.post = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Recommender) { r.logger = l }
}

// New 从数据源加载课程与用户并构建推荐器。引擎在第一次查询时训练。
func New(ctx context.Context, src dataset.Source, opts ...Option) (*Recommender, error) {
	ds, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("hybrid: %w", err)
	}
	r := NewFromDataset(ds, opts...)
	r.src = src
	return r, nil
}

// NewFromDataset 基于已加载的数据集构建推荐器，Close 不会释放任何数据源。
func NewFromDataset(ds *dataset.Dataset, opts ...Option) *Recommender {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	defaults := &core.DefaultRecallConfig{}
	r := &Recommender{
		courses:       core.NewCourseIndex(ds.Courses),
		users:         ds.Users,
		collabWeight:  defaults.DefaultCollabWeight(),
		contentWeight: defaults.DefaultContentWeight(),
		topK:          defaults.DefaultTopKNeighbors(),
		topicBoost:    defaults.DefaultTopicBoost(),
		logger:        logging.With("hybrid"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.cf = recall.NewCFEngine(ds.Courses, ds.Users,
		recall.WithCFTopK(r.topK),
		recall.WithCFLogger(r.logger),
	)
	r.content = recall.NewContentEngine(ds.Courses, ds.Users,
		recall.WithContentTopK(r.topK),
		recall.WithTopicBoost(r.topicBoost),
		recall.WithContentLogger(r.logger),
	)
	r.hot = &recall.Hot{Courses: ds.Courses}
	return r
}

// CF 返回协同过滤引擎。
func (r *Recommender) CF() *recall.CFEngine { return r.cf }

// Content 返回内容推荐引擎。
func (r *Recommender) Content() *recall.ContentEngine { return r.content }

// Courses 返回课程索引。
func (r *Recommender) Courses() *core.CourseIndex { return r.courses }

// Users 返回用户列表。
func (r *Recommender) Users() []core.User { return r.users }

// Recommend 为用户生成混合推荐：Item-CF、User-CF、内容推荐各取 2n 个候选，
// 按名次衰减加权累加后取前 n 门课程。任何一路为空都不影响其余两路。
// 没有任何信号时返回空列表，不会回退到热门推荐。
func (r *Recommender) Recommend(ctx context.Context, userID string, n int) (courses []core.Course, err error) {
	start := time.Now()
	defer func() { metrics.RecordRecommend(SceneUser, time.Since(start), len(courses), err) }()

	if n <= 0 {
		return nil, nil
	}
	rctx := &core.RecommendContext{UserID: userID, Scene: SceneUser, Limit: n}

	fanout := &recall.Fanout{
		Sources: []recall.WeightedSource{
			{Source: &recall.ItemBasedCF{Engine: r.cf}, Weight: r.collabWeight},
			{Source: &recall.UserBasedCF{Engine: r.cf}, Weight: r.collabWeight * userCFDiscount},
			{Source: &recall.ContentForUser{Engine: r.content}, Weight: r.contentWeight},
		},
		CandidateFactor: recall.DefaultCandidateFactor,
		Keep:            -1,
		Logger:          &r.logger,
	}

	p := (&pipeline.Pipeline{}).Append(fanout, pipeline.NodeFunc{
		NodeName: "hybrid.enrich",
		NodeKind: pipeline.KindPostProcess,
		Fn:       r.enrich,
	})
	if r.post != nil {
		p = p.Append(r.post.Nodes...)
	}
	p = p.Append(&rerank.TopNNode{N: n})

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("hybrid: recommend for %s: %w", userID, err)
	}
	courses = r.courses.Resolve(items)
	r.logger.Debug().
		Str("user_id", userID).
		Int("limit", n).
		Int("results", len(courses)).
		Msg("hybrid recommend")
	return courses, nil
}

// enrich 给候选写入课程分类与等级标签。
func (r *Recommender) enrich(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	for _, it := range items {
		c, ok := r.courses.Get(it.ID)
		if !ok {
			continue
		}
		if c.Categories != "" {
			it.PutLabel(LabelCategory, utils.Label{Value: c.Categories, Source: "course"})
		}
		if c.Level != "" {
			it.PutLabel(LabelLevel, utils.Label{Value: c.Level, Source: "course"})
		}
	}
	return items, nil
}

// RecommendSimilarToCourse 返回与课程内容相似的课程。未知课程或内容模型训练失败时返回空。
func (r *Recommender) RecommendSimilarToCourse(ctx context.Context, courseID string, n int) (courses []core.Course, err error) {
	start := time.Now()
	defer func() { metrics.RecordRecommend(SceneSimilar, time.Since(start), len(courses), err) }()

	if n <= 0 {
		return nil, nil
	}
	rctx := &core.RecommendContext{Scene: SceneSimilar, CourseID: courseID, Limit: n}
	p := (&pipeline.Pipeline{}).Append(&recall.SimilarCourses{Engine: r.content}, &rerank.TopNNode{N: n})

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("hybrid: similar to %s: %w", courseID, err)
	}
	return r.courses.Resolve(items), nil
}

// RecommendPopularCourses 按 rating×0.7 + purchased×0.3 返回前 n 门课程。
func (r *Recommender) RecommendPopularCourses(ctx context.Context, n int) (courses []core.Course, err error) {
	start := time.Now()
	defer func() { metrics.RecordRecommend(ScenePopular, time.Since(start), len(courses), err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.courses.Resolve(r.hot.PopularCourses(n)), nil
}

// Close 释放数据源。
func (r *Recommender) Close(ctx context.Context) error {
	if r.src == nil {
		return nil
	}
	return r.src.Close(ctx)
}
