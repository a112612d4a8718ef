package dataset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/rushteam/lmsrec/core"
)

const (
	// DefaultMongoDatabase 在连接串未指定数据库时使用
	DefaultMongoDatabase = "lms"

	CoursesCollection = "courses"
	UsersCollection   = "users"
)

// MongoSource 从 MongoDB 的 courses / users 集合加载数据。
type MongoSource struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoSource 连接 MongoDB。database 为空时取连接串中的数据库名。
// 连接是惰性的，第一次查询时才会真正建立。
func NewMongoSource(ctx context.Context, uri, database string, timeout time.Duration) (*MongoSource, error) {
	if database == "" {
		database = databaseFromURI(uri)
	}
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetServerSelectionTimeout(timeout).SetConnectTimeout(timeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "dataset: connect mongodb", err)
	}
	return &MongoSource{
		client:  client,
		db:      client.Database(database),
		timeout: timeout,
	}, nil
}

func databaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return DefaultMongoDatabase
	}
	return cs.Database
}

func (s *MongoSource) Name() string { return "mongo" }

// Database 返回当前使用的数据库名。
func (s *MongoSource) Database() string { return s.db.Name() }

func (s *MongoSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoSource) LoadCourses(ctx context.Context) ([]core.Course, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.db.Collection(CoursesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []courseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	courses := make([]core.Course, 0, len(docs))
	for _, d := range docs {
		courses = append(courses, d.toCourse())
	}
	return courses, nil
}

func (s *MongoSource) LoadUsers(ctx context.Context) ([]core.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.db.Collection(UsersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]core.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toUser())
	}
	return users, nil
}

func (s *MongoSource) CheckConnection(ctx context.Context) (bool, string) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return false, fmt.Sprintf("Failed to connect to MongoDB: %v", err)
	}
	return true, "Successfully connected to MongoDB"
}

// Counts 返回 courses / users 集合的文档数。
func (s *MongoSource) Counts(ctx context.Context) (courses, users int64, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	courses, err = s.db.Collection(CoursesCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, err
	}
	users, err = s.db.Collection(UsersCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, err
	}
	return courses, users, nil
}

func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// courseDoc 是 courses 集合的文档结构。
// categories / tags 既可能是字符串也可能是数组；ratings / purchased 可能是任意数值类型。
type courseDoc struct {
	ID            any          `bson:"_id"`
	Name          string       `bson:"name"`
	Description   string       `bson:"description"`
	Categories    any          `bson:"categories"`
	Tags          any          `bson:"tags"`
	Level         string       `bson:"level"`
	Ratings       any          `bson:"ratings"`
	Purchased     any          `bson:"purchased"`
	Benefits      []titledDoc  `bson:"benefits"`
	Prerequisites []titledDoc  `bson:"prerequisites"`
	CourseData    []contentDoc `bson:"courseData"`
}

type titledDoc struct {
	Title string `bson:"title"`
}

type contentDoc struct {
	Title        string `bson:"title"`
	Description  string `bson:"description"`
	VideoSection string `bson:"videoSection"`
	Suggestion   string `bson:"suggestion"`
}

func (d courseDoc) toCourse() core.Course {
	c := core.Course{
		ID:          idString(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Categories:  joinField(d.Categories),
		Tags:        joinField(d.Tags),
		Level:       d.Level,
	}
	if r, ok := toFloat(d.Ratings); ok {
		c.Rating = &r
	}
	if p, ok := toFloat(d.Purchased); ok {
		n := int(p)
		c.Purchased = &n
	}
	for _, b := range d.Benefits {
		c.Benefits = append(c.Benefits, core.Titled{Title: b.Title})
	}
	for _, p := range d.Prerequisites {
		c.Prerequisites = append(c.Prerequisites, core.Titled{Title: p.Title})
	}
	for _, b := range d.CourseData {
		c.Contents = append(c.Contents, core.ContentBlock{
			Title:       b.Title,
			Description: b.Description,
			Section:     b.VideoSection,
			Suggestion:  b.Suggestion,
		})
	}
	return c
}

// userDoc 是 users 集合的文档结构。
type userDoc struct {
	ID       any           `bson:"_id"`
	Name     string        `bson:"name"`
	Email    string        `bson:"email"`
	Courses  []courseRef   `bson:"courses"`
	Progress []progressDoc `bson:"progress"`
}

type courseRef struct {
	CourseID any `bson:"courseId"`
}

type progressDoc struct {
	CourseID any          `bson:"courseId"`
	Chapters []chapterDoc `bson:"chapters"`
}

type chapterDoc struct {
	IsCompleted bool `bson:"isCompleted"`
}

func (d userDoc) toUser() core.User {
	u := core.User{
		ID:    idString(d.ID),
		Name:  d.Name,
		Email: d.Email,
	}
	for _, ref := range d.Courses {
		if id := idString(ref.CourseID); id != "" {
			u.Courses = append(u.Courses, id)
		}
	}
	for _, p := range d.Progress {
		id := idString(p.CourseID)
		if id == "" || p.Chapters == nil {
			continue
		}
		chapters := make([]bool, len(p.Chapters))
		for i, ch := range p.Chapters {
			chapters[i] = ch.IsCompleted
		}
		u.Progress = append(u.Progress, core.CourseProgress{CourseID: id, Chapters: chapters})
	}
	return u
}

// idString 把 ObjectID / 字符串 / 数值形式的 ID 统一为字符串。
func idString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return x.Hex()
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func joinField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case primitive.A:
		return joinValues([]any(x))
	case []any:
		return joinValues(x)
	default:
		return fmt.Sprint(x)
	}
}

func joinValues(vs []any) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		if s := joinField(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case primitive.Decimal128:
		f, err := decimalFloat(x)
		return f, err == nil
	default:
		return 0, false
	}
}

func decimalFloat(d primitive.Decimal128) (float64, error) {
	var f float64
	_, err := fmt.Sscan(d.String(), &f)
	return f, err
}
