package filter

import (
	"context"

	"github.com/rushteam/lmsrec/core"
)

// BlacklistFilter 过滤全局下架/屏蔽的课程。
// 名单来自内存 CourseIDs，以及可选的 Store[Key]（JSON 字符串数组）。
type BlacklistFilter struct {
	CourseIDs []string

	Store BlacklistStore
	Key   string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建黑名单过滤器，storeAdapter 可为 nil。
func NewBlacklistFilter(courseIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	f := &BlacklistFilter{CourseIDs: courseIDs, Key: key}
	if storeAdapter != nil {
		f.Store = storeAdapter
	}
	return f
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if contains(f.CourseIDs, item.ID) {
		return true, nil
	}
	if f.Store == nil || f.Key == "" {
		return false, nil
	}

	ids, err := f.Store.GetBlacklist(ctx, f.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return contains(ids, item.ID), nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
