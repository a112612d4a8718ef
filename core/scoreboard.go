package core

import "sort"

// ScoreBoard 是按首次出现顺序记录的分数累加器，排序时同分保持首次出现顺序。
type ScoreBoard struct {
	order []*Item
	pos   map[string]*Item
}

func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{pos: make(map[string]*Item)}
}

// Add 给 id 累加 delta，返回对应的 Item（首次出现时创建）。
func (b *ScoreBoard) Add(id string, delta float64) *Item {
	it, ok := b.pos[id]
	if !ok {
		it = NewItem(id)
		b.pos[id] = it
		b.order = append(b.order, it)
	}
	it.Score += delta
	return it
}

func (b *ScoreBoard) Len() int { return len(b.order) }

// Has 判断 id 是否已经出现过。
func (b *ScoreBoard) Has(id string) bool {
	_, ok := b.pos[id]
	return ok
}

// Top 返回按分数降序的前 n 个（n <= 0 表示全部）。
func (b *ScoreBoard) Top(n int) []*Item {
	out := append([]*Item(nil), b.order...)
	SortByScore(out)
	return Truncate(out, n)
}

// SortByScore 按分数降序稳定排序。
func SortByScore(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// Truncate 截取前 n 个（n <= 0 表示不截取）。
func Truncate(items []*Item, n int) []*Item {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
