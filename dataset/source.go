// Package dataset 是推荐引擎的数据访问层：从 MongoDB、Store 快照或内存加载课程与用户。
//
// 所有 Source 实现都是并发安全的，可以在多个请求间共享；
// 推荐引擎本身不并发，只有 Load 并行拉取课程与用户。
package dataset

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/metrics"
)

// Source 提供两个有序数据集：课程、带交互历史的用户。
type Source interface {
	Name() string

	// LoadCourses 加载全部课程，可能为空
	LoadCourses(ctx context.Context) ([]core.Course, error)

	// LoadUsers 加载全部用户，可能为空
	LoadUsers(ctx context.Context) ([]core.User, error)

	// CheckConnection 检查数据源是否可用，返回状态和可读的说明
	CheckConnection(ctx context.Context) (bool, string)

	// Close 释放连接
	Close(ctx context.Context) error
}

// Dataset 是一次推荐会话使用的快照，会话内只读。
type Dataset struct {
	Courses []core.Course `json:"courses"`
	Users   []core.User   `json:"users"`
}

// Load 并行加载课程与用户。任一失败时返回包装了 core.ErrDatasetUnavailable 的错误。
func Load(ctx context.Context, src Source) (*Dataset, error) {
	start := time.Now()
	ds := &Dataset{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := src.LoadCourses(gctx)
		if err != nil {
			return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "dataset: load courses from "+src.Name(), err)
		}
		ds.Courses = courses
		return nil
	})
	g.Go(func() error {
		users, err := src.LoadUsers(gctx)
		if err != nil {
			return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "dataset: load users from "+src.Name(), err)
		}
		ds.Users = users
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.RecordDatasetLoad(src.Name(), time.Since(start))
	return ds, nil
}

// Shared 包装一个共享的 Source，Close 变为空操作。
// 每个请求创建的推荐器关闭时不会断开共享连接。
func Shared(src Source) Source {
	return sharedSource{src}
}

type sharedSource struct {
	Source
}

func (sharedSource) Close(context.Context) error { return nil }
