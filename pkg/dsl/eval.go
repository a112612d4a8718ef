// Package dsl 是基于 CEL (Common Expression Language) 的候选过滤表达式。
//
// 可用变量：
//   - item：id / score / features / meta / labels
//   - label：label key -> value（字符串），例如 label.recall_source
//   - rctx：user_id / scene / course_id / limit / params / labels
//
// 示例：
//   - `item.score > 0.5`
//   - `has(label.category) && label.category != "Design"`
//   - `label.recall_source.contains("i2i")`
//   - `"python" in item.meta.matching_topics`
//
// 访问不存在的 map key 会报错，先用 has() 判断存在性。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/lmsrec/core"
)

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func env() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的表达式，可并发复用。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，空表达式恒为 true。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{}, nil
	}
	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对一个候选求值，表达式必须返回 bool。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Eval 编译并执行一次表达式。
func Eval(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	if it == nil {
		it = core.NewItem("")
	}
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}

	labels := make(map[string]any, len(it.Labels))
	labelValues := make(map[string]any, len(it.Labels))
	for k, v := range it.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
		labelValues[k] = v.Value
	}

	userLabels := make(map[string]any, len(rctx.Labels))
	for k, v := range rctx.Labels {
		userLabels[k] = v.Value
	}

	features := it.Features
	if features == nil {
		features = map[string]float64{}
	}
	meta := it.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	params := rctx.Params
	if params == nil {
		params = map[string]any{}
	}

	return map[string]any{
		"item": map[string]any{
			"id":       it.ID,
			"score":    it.Score,
			"features": features,
			"meta":     meta,
			"labels":   labels,
		},
		"label": labelValues,
		"rctx": map[string]any{
			"user_id":   rctx.UserID,
			"scene":     rctx.Scene,
			"course_id": rctx.CourseID,
			"limit":     rctx.Limit,
			"params":    params,
			"labels":    userLabels,
		},
	}
}
