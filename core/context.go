package core

import "github.com/rushteam/lmsrec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string // 不透明字符串，不假设数字或结构化 ID
	Scene  string // user / similar / popular

	// CourseID 是 similar 场景下的源课程
	CourseID string

	// Limit 是调用方请求的返回条数
	Limit int

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
