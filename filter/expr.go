package filter

import (
	"context"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选。
// 默认表达式为 true 时保留；Invert 为 true 时表达式为 true 即过滤。
type ExprFilter struct {
	Expr   string
	Invert bool

	program *dsl.Program
}

// NewExprFilter 编译表达式，语法错误在构建时返回。
func NewExprFilter(expr string, invert bool) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{Expr: expr, Invert: invert, program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	p := f.program
	if p == nil {
		var err error
		if p, err = dsl.Compile(f.Expr); err != nil {
			return false, err
		}
	}
	keep, err := p.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	if f.Invert {
		return keep, nil
	}
	return !keep, nil
}
