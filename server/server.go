// Package server 把混合推荐器暴露为 REST API（gin）。
//
//	GET /                         存活检查
//	GET /health                   数据源连接检查
//	GET /recommend/user/:id       个性化推荐
//	GET /recommend/similar/:id    相似课程
//	GET /recommend/popular        热门课程
//	GET /metrics                  Prometheus 指标
//
// 推荐接口都接受 limit 参数（默认 5），返回 {"recommendations": [...]}。
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/hybrid"
	"github.com/rushteam/lmsrec/pkg/logging"
)

// DefaultLimit 是 limit 参数缺省时的返回条数。
const DefaultLimit = 5

// Config 是 HTTP 服务配置。
type Config struct {
	Addr string

	// Mode 是 gin 模式：debug / release / test
	Mode string

	DefaultLimit int

	ShutdownTimeout time.Duration
}

// Server 持有共享的数据源，每个请求基于它新建一个 hybrid.Recommender，请求结束后关闭。
type Server struct {
	src    dataset.Source
	opts   []hybrid.Option
	cfg    Config
	engine *gin.Engine
	logger zerolog.Logger
}

// New 创建服务。src 在请求之间共享，由调用方负责关闭。
func New(src dataset.Source, cfg Config, opts ...hybrid.Option) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		src:    dataset.Shared(src),
		opts:   opts,
		cfg:    cfg,
		logger: logging.With("server"),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger), cors())

	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	recommend := r.Group("/recommend")
	{
		// GET /recommend/user/u1?limit=5
		recommend.GET("/user/:id", s.recommendForUser)
		// GET /recommend/similar/c1?limit=5
		recommend.GET("/similar/:id", s.recommendSimilar)
		// GET /recommend/popular?limit=5
		recommend.GET("/popular", s.recommendPopular)
	}
	return r
}

// Handler 返回 http.Handler，便于测试或挂载到其他 mux。
func (s *Server) Handler() http.Handler { return s.engine }

// Run 启动监听，ctx 取消后优雅退出。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// RecommendationResponse 是推荐接口的响应体。
type RecommendationResponse struct {
	Recommendations []CourseView `json:"recommendations"`
}

// CourseView 是返回给客户端的课程摘要。
type CourseView struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  string   `json:"categories,omitempty"`
	Tags        string   `json:"tags,omitempty"`
	Level       string   `json:"level,omitempty"`
	Ratings     *float64 `json:"ratings,omitempty"`
	Purchased   *int     `json:"purchased,omitempty"`
}

func viewsOf(courses []core.Course) []CourseView {
	out := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseView{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Categories:  c.Categories,
			Tags:        c.Tags,
			Level:       c.Level,
			Ratings:     c.Rating,
			Purchased:   c.Purchased,
		})
	}
	return out
}

// ErrorBody 是错误响应体。
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Code: code, Message: message})
}

func (s *Server) internalError(c *gin.Context, err error) {
	code := core.ErrorCodeInternalError
	if de := core.GetDomainError(err); de != nil {
		code = de.Code
	}
	s.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.FullPath()).Msg("recommend failed")
	errorResponse(c, http.StatusInternalServerError, code, err.Error())
}

// limit 解析 limit 参数：缺省时取默认值，非整数或负数返回 false。
func (s *Server) limit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return s.cfg.DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		errorResponse(c, http.StatusBadRequest, core.ErrorCodeInvalidInput, "limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// withRecommender 为一次请求创建推荐器，fn 返回后关闭。
func (s *Server) withRecommender(c *gin.Context, fn func(ctx context.Context, r *hybrid.Recommender) ([]core.Course, error)) {
	ctx := c.Request.Context()
	rec, err := hybrid.New(ctx, s.src, s.opts...)
	if err != nil {
		s.internalError(c, err)
		return
	}
	defer rec.Close(ctx)

	courses, err := fn(ctx, rec)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendationResponse{Recommendations: viewsOf(courses)})
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "LMS Recommender API is running"})
}

func (s *Server) health(c *gin.Context) {
	ok, msg := s.src.CheckConnection(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": msg})
}

func (s *Server) recommendForUser(c *gin.Context) {
	n, ok := s.limit(c)
	if !ok {
		return
	}
	userID := c.Param("id")
	s.withRecommender(c, func(ctx context.Context, r *hybrid.Recommender) ([]core.Course, error) {
		return r.Recommend(ctx, userID, n)
	})
}

func (s *Server) recommendSimilar(c *gin.Context) {
	n, ok := s.limit(c)
	if !ok {
		return
	}
	courseID := c.Param("id")
	s.withRecommender(c, func(ctx context.Context, r *hybrid.Recommender) ([]core.Course, error) {
		return r.RecommendSimilarToCourse(ctx, courseID, n)
	})
}

func (s *Server) recommendPopular(c *gin.Context) {
	n, ok := s.limit(c)
	if !ok {
		return
	}
	s.withRecommender(c, func(ctx context.Context, r *hybrid.Recommender) ([]core.Course, error) {
		return r.RecommendPopularCourses(ctx, n)
	})
}
