// Package similarity 计算余弦相似度与对称相似度矩阵。
package similarity

import (
	"math"
	"sort"
)

// Cosine 计算两个稠密向量的余弦相似度，任一向量为零向量时返回 0。
// 结果被截断到 [-1, 1]，避免浮点误差。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// SparseDot 计算两个稀疏向量（term -> weight）的点积。
// 对 L2 归一化后的向量，点积即余弦相似度。
func SparseDot(a, b map[int]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for k, va := range a {
		if vb, ok := b[k]; ok {
			dot += va * vb
		}
	}
	return clamp(dot)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}

// Matrix 是按 ID 索引的对称相似度矩阵，对角线恒为 1。
type Matrix struct {
	ids    []string
	pos    map[string]int
	values [][]float64
}

// Neighbor 是某一行的近邻。
type Neighbor struct {
	Index      int
	ID         string
	Similarity float64
}

// NewMatrix 用 sim(i, j) 填充上三角并镜像到下三角。
func NewMatrix(ids []string, sim func(i, j int) float64) *Matrix {
	n := len(ids)
	m := &Matrix{
		ids:    ids,
		pos:    make(map[string]int, n),
		values: make([][]float64, n),
	}
	for i, id := range ids {
		if _, dup := m.pos[id]; !dup {
			m.pos[id] = i
		}
		m.values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m.values[i][i] = 1
		for j := i + 1; j < n; j++ {
			v := sim(i, j)
			m.values[i][j] = v
			m.values[j][i] = v
		}
	}
	return m
}

// Rows 计算每两行之间的余弦相似度。
func Rows(ids []string, rows [][]float64) *Matrix {
	return NewMatrix(ids, func(i, j int) float64 {
		return Cosine(rows[i], rows[j])
	})
}

// Columns 计算每两列之间的余弦相似度。
func Columns(ids []string, rows [][]float64) *Matrix {
	cols := make([][]float64, len(ids))
	for j := range ids {
		col := make([]float64, len(rows))
		for i := range rows {
			col[i] = rows[i][j]
		}
		cols[j] = col
	}
	return Rows(ids, cols)
}

func (m *Matrix) Len() int { return len(m.ids) }

func (m *Matrix) IDs() []string { return m.ids }

// Index 返回 ID 对应的行号。
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.pos[id]
	return i, ok
}

// At 按行列号读取。
func (m *Matrix) At(i, j int) float64 { return m.values[i][j] }

// Get 按 ID 读取。
func (m *Matrix) Get(a, b string) (float64, bool) {
	i, ok := m.pos[a]
	if !ok {
		return 0, false
	}
	j, ok := m.pos[b]
	if !ok {
		return 0, false
	}
	return m.values[i][j], true
}

// Neighbors 返回第 i 行除自身外相似度最高的 k 个近邻（k <= 0 表示全部）。
// 相似度相同的按矩阵顺序排列。
func (m *Matrix) Neighbors(i, k int) []Neighbor {
	out := make([]Neighbor, 0, len(m.ids))
	for j, id := range m.ids {
		if j == i {
			continue
		}
		out = append(out, Neighbor{Index: j, ID: id, Similarity: m.values[i][j]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Similarity > out[b].Similarity
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
