// Package store 提供 core.Store 的实现：MemoryStore（测试/开发）与 RedisStore（生产）。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	src := dataset.NewStoreSource(s, "lms")
package store
