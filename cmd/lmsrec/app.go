package main

import (
	"context"
	"fmt"

	"github.com/rushteam/lmsrec/config"
	"github.com/rushteam/lmsrec/config/builders"
	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
	"github.com/rushteam/lmsrec/hybrid"
	"github.com/rushteam/lmsrec/store"
)

// openSource 按配置打开数据源。redis 源同时返回底层 Store，供 filter 节点读取名单。
func openSource(ctx context.Context, cfg *config.App) (dataset.Source, core.Store, error) {
	switch cfg.Source {
	case config.SourceRedis:
		rs, err := store.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewStoreSource(rs, cfg.Redis.KeyPrefix), rs, nil
	case config.SourceFile:
		ds, err := dataset.ReadFile(cfg.Dataset.File)
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewStaticSource(ds), nil, nil
	default:
		src, err := dataset.NewMongoSource(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	}
}

// recommenderOptions 把 recommender 配置转换为 hybrid.Option。
func recommenderOptions(cfg *config.App, s core.Store) ([]hybrid.Option, error) {
	r := cfg.Recommender
	opts := []hybrid.Option{
		hybrid.WithWeights(r.CollabWeight, r.ContentWeight),
		hybrid.WithTopKNeighbors(r.TopKNeighbors),
		hybrid.WithTopicBoost(r.TopicBoost),
	}
	if r.PipelineFile != "" {
		p, err := builders.LoadPipeline(r.PipelineFile, s)
		if err != nil {
			return nil, fmt.Errorf("load pipeline %s: %w", r.PipelineFile, err)
		}
		opts = append(opts, hybrid.WithPostPipeline(p))
	}
	return opts, nil
}
