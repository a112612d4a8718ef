package filter

import (
	"context"

	"github.com/rushteam/lmsrec/core"
)

// DefaultUserBlockPrefix 是用户屏蔽课程列表的默认 key 前缀。
const DefaultUserBlockPrefix = "user:block"

// UserBlockFilter 过滤用户主动屏蔽（不感兴趣）的课程，key 为 {KeyPrefix}:{UserID}。
type UserBlockFilter struct {
	Store     UserBlockStore
	KeyPrefix string
}

// UserBlockStore 是用户屏蔽列表存储接口。
type UserBlockStore interface {
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

func NewUserBlockFilter(storeAdapter *StoreAdapter, keyPrefix string) *UserBlockFilter {
	f := &UserBlockFilter{KeyPrefix: keyPrefix}
	if storeAdapter != nil {
		f.Store = storeAdapter
	}
	return f
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

func (f *UserBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == "" || f.Store == nil {
		return false, nil
	}

	prefix := f.KeyPrefix
	if prefix == "" {
		prefix = DefaultUserBlockPrefix
	}
	blocked, err := f.Store.GetUserBlocks(ctx, rctx.UserID, prefix)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return contains(blocked, item.ID), nil
}
