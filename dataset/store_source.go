package dataset

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/lmsrec/core"
)

// DefaultKeyPrefix 是快照 key 的默认前缀。
const DefaultKeyPrefix = "lmsrec"

// StoreSource 从 core.Store 读取 JSON 快照：
//
//	{prefix}:courses -> []core.Course
//	{prefix}:users   -> []core.User
//
// key 不存在视为空数据集。
type StoreSource struct {
	store  core.Store
	prefix string
}

func NewStoreSource(s core.Store, prefix string) *StoreSource {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &StoreSource{store: s, prefix: prefix}
}

func (s *StoreSource) Name() string { return "store." + s.store.Name() }

func (s *StoreSource) CoursesKey() string { return s.prefix + ":courses" }

func (s *StoreSource) UsersKey() string { return s.prefix + ":users" }

func (s *StoreSource) LoadCourses(ctx context.Context) ([]core.Course, error) {
	var courses []core.Course
	if err := s.load(ctx, s.CoursesKey(), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *StoreSource) LoadUsers(ctx context.Context) ([]core.User, error) {
	var users []core.User
	if err := s.load(ctx, s.UsersKey(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *StoreSource) load(ctx context.Context, key string, v any) error {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Save 把数据集写入快照 key。
func (s *StoreSource) Save(ctx context.Context, ds *Dataset) error {
	courses, err := json.Marshal(ds.Courses)
	if err != nil {
		return err
	}
	users, err := json.Marshal(ds.Users)
	if err != nil {
		return err
	}
	return s.store.BatchSet(ctx, map[string][]byte{
		s.CoursesKey(): courses,
		s.UsersKey():   users,
	})
}

func (s *StoreSource) CheckConnection(ctx context.Context) (bool, string) {
	if err := s.store.Ping(ctx); err != nil {
		return false, "Failed to connect to " + s.store.Name() + ": " + err.Error()
	}
	return true, "Successfully connected to " + s.store.Name()
}

func (s *StoreSource) Close(context.Context) error {
	return s.store.Close()
}

// Snapshot 从 src 加载数据集并写入 dst。
func Snapshot(ctx context.Context, src Source, dst *StoreSource) (*Dataset, error) {
	ds, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := dst.Save(ctx, ds); err != nil {
		return nil, err
	}
	return ds, nil
}
