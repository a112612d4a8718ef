package recall

import (
	"github.com/rs/zerolog"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/interaction"
	"github.com/rushteam/lmsrec/pkg/logging"
	"github.com/rushteam/lmsrec/pkg/similarity"
	"github.com/rushteam/lmsrec/pkg/utils"
)

// CFEngine 是基于交互矩阵的协同过滤引擎（User-CF 与 Item-CF）。
//
// 交互矩阵与两个相似度矩阵都在首次查询时构建，之后只读。
// 数据变化后需要新建实例。引擎不加锁，不要在多个 goroutine 间共享。
type CFEngine struct {
	courses []core.Course
	users   []core.User

	// TopKNeighbors 是每次查询考虑的近邻用户/近邻课程数
	TopKNeighbors int

	logger  zerolog.Logger
	matrix  trainable[*interaction.Matrix]
	userSim trainable[*similarity.Matrix]
	itemSim trainable[*similarity.Matrix]
}

// CFOption 配置 CFEngine。
type CFOption func(*CFEngine)

// WithCFTopK 设置近邻数。
func WithCFTopK(k int) CFOption {
	return func(e *CFEngine) {
		if k > 0 {
			e.TopKNeighbors = k
		}
	}
}

// WithCFLogger 设置 logger。
func WithCFLogger(l zerolog.Logger) CFOption {
	return func(e *CFEngine) { e.logger = l }
}

func NewCFEngine(courses []core.Course, users []core.User, opts ...CFOption) *CFEngine {
	cfg := &core.DefaultRecallConfig{}
	e := &CFEngine{
		courses:       courses,
		users:         users,
		TopKNeighbors: cfg.DefaultTopKNeighbors(),
		logger:        logging.With("recall.cf"),
		matrix:        trainable[*interaction.Matrix]{model: "interaction"},
		userSim:       trainable[*similarity.Matrix]{model: "user_cf"},
		itemSim:       trainable[*similarity.Matrix]{model: "item_cf"},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Matrix 返回交互矩阵，没有数据时 ok 为 false。
func (e *CFEngine) Matrix() (*interaction.Matrix, bool) {
	return e.matrix.get(func() (*interaction.Matrix, bool) {
		m := interaction.Build(e.courses, e.users)
		if m.Empty() {
			e.logger.Debug().Int("courses", len(e.courses)).Int("users", len(e.users)).Msg("no interaction data")
			return nil, false
		}
		e.logger.Debug().Int("users", len(m.UserIDs())).Int("courses", len(m.CourseIDs())).Msg("interaction matrix built")
		return m, true
	})
}

// TrainUserBased 构建用户相似度矩阵（交互矩阵各行的余弦）。重复调用是幂等的。
func (e *CFEngine) TrainUserBased() bool {
	_, ok := e.userSimilarity()
	return ok
}

// TrainItemBased 构建课程相似度矩阵（交互矩阵各列的余弦）。重复调用是幂等的。
func (e *CFEngine) TrainItemBased() bool {
	_, ok := e.itemSimilarity()
	return ok
}

func (e *CFEngine) userSimilarity() (*similarity.Matrix, bool) {
	return e.userSim.get(func() (*similarity.Matrix, bool) {
		m, ok := e.Matrix()
		if !ok {
			return nil, false
		}
		return similarity.Rows(m.UserIDs(), m.Rows()), true
	})
}

func (e *CFEngine) itemSimilarity() (*similarity.Matrix, bool) {
	return e.itemSim.get(func() (*similarity.Matrix, bool) {
		m, ok := e.Matrix()
		if !ok {
			return nil, false
		}
		return similarity.Columns(m.CourseIDs(), m.Rows()), true
	})
}

// UserSimilarity 返回训练好的用户相似度矩阵。
func (e *CFEngine) UserSimilarity() (*similarity.Matrix, bool) { return e.userSimilarity() }

// ItemSimilarity 返回训练好的课程相似度矩阵。
func (e *CFEngine) ItemSimilarity() (*similarity.Matrix, bool) { return e.itemSimilarity() }

// RecommendUserBased 基于相似用户推荐：
// score[c] += sim(user, neighbour) × neighbourScore(c)，只统计目标用户未交互过的课程。
func (e *CFEngine) RecommendUserBased(userID string, n int) []*core.Item {
	if n <= 0 {
		return nil
	}
	sim, ok := e.userSimilarity()
	if !ok {
		return nil
	}
	m, _ := e.Matrix()
	target, ok := m.UserIndex(userID)
	if !ok {
		return nil
	}

	courseIDs := m.CourseIDs()
	board := core.NewScoreBoard()
	for _, nb := range sim.Neighbors(target, e.TopKNeighbors) {
		if nb.Similarity <= 0 {
			continue
		}
		for j, courseID := range courseIDs {
			score := m.Value(nb.Index, j)
			if score <= 0 || m.Value(target, j) > 0 {
				continue
			}
			board.Add(courseID, nb.Similarity*score)
		}
	}
	return labelSource(board.Top(n), "u2i")
}

// RecommendItemBased 基于相似课程推荐：
// 对用户交互过的每门课程 h，score[c] += sim(h, c) × userScore(h)，跳过已交互课程。
func (e *CFEngine) RecommendItemBased(userID string, n int) []*core.Item {
	if n <= 0 {
		return nil
	}
	sim, ok := e.itemSimilarity()
	if !ok {
		return nil
	}
	m, _ := e.Matrix()
	target, ok := m.UserIndex(userID)
	if !ok {
		return nil
	}
	held := m.Interacted(target)
	if len(held) == 0 {
		return nil
	}

	courseIDs := m.CourseIDs()
	board := core.NewScoreBoard()
	for _, h := range held {
		userScore := m.Value(target, h)
		for _, nb := range sim.Neighbors(h, e.TopKNeighbors) {
			if nb.Similarity <= 0 || m.Value(target, nb.Index) > 0 {
				continue
			}
			board.Add(courseIDs[nb.Index], nb.Similarity*userScore)
		}
	}
	return labelSource(board.Top(n), "i2i")
}

func labelSource(items []*core.Item, source string) []*core.Item {
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: source, Source: "recall"})
	}
	return items
}
