package recall

import (
	"time"

	"github.com/rushteam/lmsrec/metrics"
)

type trainState int

const (
	untrained trainState = iota
	trained
)

// trainable 是 Untrained / Trained 两态的模型持有者。
// 训练成功后 value 只读；训练失败保持 Untrained，下一次查询会重新尝试。
type trainable[T any] struct {
	model string
	state trainState
	value T
}

// get 在 Untrained 时调用 train，返回模型及是否可用。
func (t *trainable[T]) get(train func() (T, bool)) (T, bool) {
	if t.state == trained {
		return t.value, true
	}
	start := time.Now()
	v, ok := train()
	metrics.RecordTrain(t.model, time.Since(start), ok)
	if !ok {
		var zero T
		return zero, false
	}
	t.value = v
	t.state = trained
	return v, true
}

func (t *trainable[T]) isTrained() bool { return t.state == trained }
