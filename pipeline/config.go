package pipeline

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config 是后处理 Pipeline 的配置（YAML/JSON）。
//
//	pipeline:
//	  name: post
//	  nodes:
//	    - type: filter
//	      config:
//	        filters:
//	          - type: blacklist
//	            course_ids: ["c9"]
//	    - type: rerank.diversity
//	      config:
//	        label_key: category
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name" json:"name"`
		Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
	} `yaml:"pipeline" json:"pipeline"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`     // filter / rerank.topn / rerank.diversity
	Config map[string]any `yaml:"config" json:"config"` // Node 特定配置
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 配置。
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &cfg, nil
}

// BuildPipeline 用 factory 构建 Pipeline。
func (c *Config) BuildPipeline(factory *NodeFactory) (*Pipeline, error) {
	nodes := make([]Node, 0, len(c.Pipeline.Nodes))
	for i, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node #%d %s: %w", i, nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	return &Pipeline{Nodes: nodes}, nil
}

// BuilderFunc 根据配置构建 Node。
type BuilderFunc func(map[string]any) (Node, error)

// NodeFactory 按类型名构建 Node。
type NodeFactory struct {
	builders map[string]BuilderFunc
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]BuilderFunc),
	}
}

// Register 注册 Node 构建器，同名覆盖。
func (f *NodeFactory) Register(nodeType string, builder BuilderFunc) {
	f.builders[nodeType] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config)
}

// Types 返回已注册的类型（字典序）。
func (f *NodeFactory) Types() []string {
	out := make([]string, 0, len(f.builders))
	for t := range f.builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
