package recall

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/feature"
	"github.com/rushteam/lmsrec/pkg/logging"
	"github.com/rushteam/lmsrec/pkg/similarity"
	"github.com/rushteam/lmsrec/pkg/utils"
)

const (
	// MetaMatchingTopics 是 Item.Meta 中记录匹配主题（[]string）的 key，同名 Label 以 '|' 连接
	MetaMatchingTopics = "matching_topics"

	// 每个匹配主题对用户内容分的加成
	topicWeightPerMatch = 0.2
	// 满分评分对用户内容分的加成
	ratingWeightScale = 0.5
	maxRating         = 5.0
)

// ContentEngine 是基于课程内容（TF-IDF + 技术主题加权）的推荐引擎。
//
// 首次查询时训练：构建课程特征文本、TF-IDF 向量与课程×课程余弦矩阵。
// 训练失败（例如全部是停用词）时保持 Untrained，所有查询返回空。
type ContentEngine struct {
	courses []core.Course
	users   []core.User

	// TopKNeighbors 是用户内容推荐中每门已购课程取的相似课程数
	TopKNeighbors int

	// TopicBoost 是每个共同主题的相似度乘数（连乘，不设上限）
	TopicBoost float64

	logger zerolog.Logger
	model  trainable[*contentModel]
}

type contentModel struct {
	index    *core.CourseIndex
	features []feature.CourseFeatures
	sim      *similarity.Matrix
}

// boosted 是一门候选课程相对源课程的加权相似度。
type boosted struct {
	index    int
	score    float64
	matching feature.Topics
}

// ContentOption 配置 ContentEngine。
type ContentOption func(*ContentEngine)

func WithContentTopK(k int) ContentOption {
	return func(e *ContentEngine) {
		if k > 0 {
			e.TopKNeighbors = k
		}
	}
}

func WithTopicBoost(boost float64) ContentOption {
	return func(e *ContentEngine) {
		if boost > 0 {
			e.TopicBoost = boost
		}
	}
}

func WithContentLogger(l zerolog.Logger) ContentOption {
	return func(e *ContentEngine) { e.logger = l }
}

func NewContentEngine(courses []core.Course, users []core.User, opts ...ContentOption) *ContentEngine {
	cfg := &core.DefaultRecallConfig{}
	e := &ContentEngine{
		courses:       courses,
		users:         users,
		TopKNeighbors: cfg.DefaultTopKNeighbors(),
		TopicBoost:    cfg.DefaultTopicBoost(),
		logger:        logging.With("recall.content"),
		model:         trainable[*contentModel]{model: "content"},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Train 训练内容模型，返回是否可用。重复调用是幂等的。
func (e *ContentEngine) Train() bool {
	_, ok := e.trainedModel()
	return ok
}

// Trained 表示模型已训练。
func (e *ContentEngine) Trained() bool { return e.model.isTrained() }

// Similarity 返回未加权的课程余弦矩阵。
func (e *ContentEngine) Similarity() (*similarity.Matrix, bool) {
	m, ok := e.trainedModel()
	if !ok {
		return nil, false
	}
	return m.sim, true
}

// Topics 返回课程的主题集合。
func (e *ContentEngine) Topics(courseID string) (feature.Topics, bool) {
	m, ok := e.trainedModel()
	if !ok {
		return nil, false
	}
	i, ok := m.index.Position(courseID)
	if !ok {
		return nil, false
	}
	return m.features[i].Topics, true
}

func (e *ContentEngine) trainedModel() (*contentModel, bool) {
	return e.model.get(e.train)
}

func (e *ContentEngine) train() (*contentModel, bool) {
	if len(e.courses) == 0 {
		e.logger.Debug().Msg("no courses to train on")
		return nil, false
	}

	features := feature.Build(e.courses)
	docs := make([]string, len(features))
	ids := make([]string, len(features))
	for i, f := range features {
		docs[i] = f.Text
		ids[i] = f.CourseID
	}

	vectorizer, err := feature.NewVectorizer()
	if err != nil {
		e.logger.Warn().Err(err).Msg("load stop words failed")
		return nil, false
	}
	vectors, err := vectorizer.FitTransform(docs)
	if err != nil {
		e.logger.Warn().Err(err).Int("courses", len(docs)).Msg("tf-idf vectorization failed, content engine stays untrained")
		return nil, false
	}

	sim := similarity.NewMatrix(ids, func(i, j int) float64 {
		return similarity.SparseDot(vectors[i], vectors[j])
	})
	e.logger.Debug().
		Int("courses", len(ids)).
		Int("vocabulary", len(vectorizer.Vocabulary())).
		Msg("content model trained")

	return &contentModel{
		index:    core.NewCourseIndex(e.courses),
		features: features,
		sim:      sim,
	}, true
}

// boostedSimilar 返回除源课程外所有课程的加权相似度，降序（同分保持课程顺序）。
func (e *ContentEngine) boostedSimilar(m *contentModel, source int) []boosted {
	sourceTopics := m.features[source].Topics
	out := make([]boosted, 0, m.sim.Len())
	for j := 0; j < m.sim.Len(); j++ {
		if j == source {
			continue
		}
		matching := sourceTopics.Shared(m.features[j].Topics)
		out = append(out, boosted{
			index:    j,
			score:    m.sim.At(source, j) * math.Pow(e.TopicBoost, float64(len(matching))),
			matching: matching,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].score > out[b].score
	})
	return out
}

// RecommendSimilarCourses 返回与 courseID 最相似的 n 门课程（不含自身）。
// Score 为加权相似度，Meta["matching_topics"] 为与源课程共同的主题。
func (e *ContentEngine) RecommendSimilarCourses(courseID string, n int) []*core.Item {
	if n <= 0 {
		return nil
	}
	m, ok := e.trainedModel()
	if !ok {
		return nil
	}
	source, ok := m.index.Position(courseID)
	if !ok {
		return nil
	}

	candidates := e.boostedSimilar(m, source)
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]*core.Item, 0, len(candidates))
	for _, c := range candidates {
		it := core.NewItem(m.features[c.index].CourseID)
		it.Score = c.score
		it.Features["similarity"] = m.sim.At(source, c.index)
		setMatchingTopics(it, c.matching)
		out = append(out, it)
	}
	return labelSource(out, "content")
}

// RecommendForUser 根据用户已购课程推荐内容相似的课程：
// score[c] += boosted × (1 + rating(c)/5×0.5) × (1 + 0.2×|matching|)，评分缺失时评分权重为 1。
func (e *ContentEngine) RecommendForUser(userID string, n int) []*core.Item {
	if n <= 0 {
		return nil
	}
	m, ok := e.trainedModel()
	if !ok {
		return nil
	}
	user, ok := core.FindUser(e.users, userID)
	if !ok || len(user.Courses) == 0 {
		return nil
	}

	board := core.NewScoreBoard()
	topics := make(map[string]feature.Topics)
	for _, purchasedID := range user.Courses {
		source, ok := m.index.Position(purchasedID)
		if !ok {
			continue
		}
		candidates := e.boostedSimilar(m, source)
		if len(candidates) > e.TopKNeighbors {
			candidates = candidates[:e.TopKNeighbors]
		}
		for _, c := range candidates {
			candidate := m.index.All()[c.index]
			if user.HasPurchased(candidate.ID) {
				continue
			}
			board.Add(candidate.ID, c.score*ratingWeight(candidate)*topicWeight(c.matching))
			topics[candidate.ID] = topics[candidate.ID].Union(c.matching)
		}
	}

	out := board.Top(n)
	for _, it := range out {
		setMatchingTopics(it, topics[it.ID])
	}
	return labelSource(out, "content")
}

func ratingWeight(c core.Course) float64 {
	if c.Rating == nil {
		return 1
	}
	return 1 + (*c.Rating/maxRating)*ratingWeightScale
}

func topicWeight(matching feature.Topics) float64 {
	return 1 + topicWeightPerMatch*float64(len(matching))
}

func setMatchingTopics(it *core.Item, topics feature.Topics) {
	list := append([]string{}, topics...)
	it.Meta[MetaMatchingTopics] = list
	if len(list) > 0 {
		it.PutLabel(MetaMatchingTopics, utils.Label{Value: strings.Join(list, utils.ValueSeparator), Source: "recall"})
	}
}
