// Package builders 在 init 中注册内置的后处理 Node：filter、rerank.topn、rerank.diversity。
package builders

import (
	"fmt"

	"github.com/rushteam/lmsrec/config"
	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/filter"
	"github.com/rushteam/lmsrec/pipeline"
	"github.com/rushteam/lmsrec/pkg/conv"
	"github.com/rushteam/lmsrec/rerank"
)

func init() {
	config.Register("filter", FilterBuilder(nil))
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	labelKey := conv.ConfigGet(cfg, "label_key", "category")
	if labelKey == "" {
		labelKey = "category"
	}
	return &rerank.Diversity{
		LabelKey:    labelKey,
		MaxPerValue: int(conv.ConfigGetInt64(cfg, "max_per_value", 1)),
		Backfill:    conv.ConfigGet(cfg, "backfill", false),
	}, nil
}

// FilterBuilder 返回 filter 节点的构建器。s 非空时 blacklist/user_block 可从 Store 读取名单。
//
//	nodes:
//	  - type: filter
//	    config:
//	      filters:
//	        - type: blacklist
//	          course_ids: ["c1"]
//	          key: blacklist:courses
//	        - type: user_block
//	          key_prefix: user:block
//	        - type: expr
//	          expr: item.score > 0.1
//	          invert: false
func FilterBuilder(s core.Store) config.NodeBuilder {
	var adapter *filter.StoreAdapter
	if s != nil {
		adapter = filter.NewStoreAdapter(s)
	}
	return func(cfg map[string]any) (pipeline.Node, error) {
		filtersConfig, ok := cfg["filters"].([]any)
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}
		filters := make([]filter.Filter, 0, len(filtersConfig))
		for i, fc := range filtersConfig {
			filterMap, ok := fc.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("filter #%d: invalid config", i)
			}
			f, err := buildFilter(filterMap, adapter)
			if err != nil {
				return nil, fmt.Errorf("filter #%d: %w", i, err)
			}
			filters = append(filters, f)
		}
		return &filter.FilterNode{Filters: filters}, nil
	}
}

func buildFilter(m map[string]any, adapter *filter.StoreAdapter) (filter.Filter, error) {
	switch t := conv.ConfigGet(m, "type", ""); t {
	case "blacklist":
		ids := conv.SliceAnyToString(m["course_ids"])
		return filter.NewBlacklistFilter(ids, adapter, conv.ConfigGet(m, "key", "")), nil
	case "user_block":
		return filter.NewUserBlockFilter(adapter, conv.ConfigGet(m, "key_prefix", "")), nil
	case "expr":
		expr := conv.ConfigGet(m, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("expr filter requires expr")
		}
		return filter.NewExprFilter(expr, conv.ConfigGet(m, "invert", false))
	default:
		return nil, fmt.Errorf("unknown filter type: %q", t)
	}
}

// LoadPipeline 从 YAML 文件构建后处理 Pipeline。s 非空时 filter 节点可读取 Store 中的名单。
func LoadPipeline(path string, s core.Store) (*pipeline.Pipeline, error) {
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	factory := config.DefaultFactory()
	if s != nil {
		factory.Register("filter", FilterBuilder(s))
	}
	return cfg.BuildPipeline(factory)
}
