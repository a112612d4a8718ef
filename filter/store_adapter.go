package filter

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/lmsrec/core"
)

// StoreAdapter 把 core.Store 适配为过滤器所需的存储接口。
// 值统一为 JSON 字符串数组，例如 ["c1","c2"]。
type StoreAdapter struct {
	store core.Store
}

func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 读取 key 下的课程 ID 列表。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetUserBlocks 读取 {keyPrefix}:{userID} 下的课程 ID 列表。
func (a *StoreAdapter) GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error) {
	return a.GetBlacklist(ctx, keyPrefix+":"+userID)
}

// SetBlacklist 写入 key 下的课程 ID 列表。
func (a *StoreAdapter) SetBlacklist(ctx context.Context, key string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}
