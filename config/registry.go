package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/lmsrec/pipeline"
)

// 使用配置驱动的后处理 Pipeline 时，需在入口处 import _ "github.com/rushteam/lmsrec/config/builders"
// 以触发内置 Node（filter、rerank.topn、rerank.diversity）的 init 注册。

// NodeBuilder 根据 config 构建 Node。
type NodeBuilder = pipeline.BuilderFunc

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，同名覆盖。
// 一般在组件的 init 中调用：func init() { config.Register("rerank.topn", BuildTopNNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回已注册的 Node 类型（排序）。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回包含所有已注册 Node 类型的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验所有 node 类型均已注册。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for i, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			return fmt.Errorf("node #%d: missing type", i)
		}
		if _, ok := defaultBuilders[nc.Type]; !ok {
			supported := make([]string, 0, len(defaultBuilders))
			for t := range defaultBuilders {
				supported = append(supported, t)
			}
			sort.Strings(supported)
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
