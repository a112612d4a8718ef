package core

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultTopKNeighbors 返回协同过滤/内容相似时考虑的近邻数
	DefaultTopKNeighbors() int

	// DefaultTopicBoost 返回每个共同主题的相似度乘数
	DefaultTopicBoost() float64

	// DefaultCollabWeight 返回混合推荐中协同过滤的权重
	DefaultCollabWeight() float64

	// DefaultContentWeight 返回混合推荐中内容推荐的权重
	DefaultContentWeight() float64
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultTopKNeighbors() int {
	return 10
}

func (c *DefaultRecallConfig) DefaultTopicBoost() float64 {
	return 1.3
}

func (c *DefaultRecallConfig) DefaultCollabWeight() float64 {
	return 0.6
}

func (c *DefaultRecallConfig) DefaultContentWeight() float64 {
	return 0.4
}
