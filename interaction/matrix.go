// Package interaction 把用户的购买/学习进度记录转换为稠密的 用户×课程 交互分矩阵。
//
// 交互分 = purchased×5 + progress×10，取值范围 [0, 10]。
package interaction

import (
	"sort"

	"github.com/rushteam/lmsrec/core"
)

const (
	// PurchaseWeight 是购买行为的权重
	PurchaseWeight = 5.0
	// ProgressWeight 是学习进度的权重
	ProgressWeight = 10.0
)

// Record 是一个 (user, course) 交互记录。
type Record struct {
	UserID    string
	CourseID  string
	Purchased int     // 0 或 1
	Progress  float64 // [0, 1]
}

// Score 返回交互分。
func (r Record) Score() float64 {
	return float64(r.Purchased)*PurchaseWeight + r.Progress*ProgressWeight
}

// BuildRecords 为每个 (user, course) 生成一条记录，顺序为 用户顺序 × 课程顺序。
// 任一输入为空时返回 nil。
func BuildRecords(courses []core.Course, users []core.User) []Record {
	if len(courses) == 0 || len(users) == 0 {
		return nil
	}

	records := make([]Record, 0, len(courses)*len(users))
	for _, u := range users {
		purchased := make(map[string]struct{}, len(u.Courses))
		for _, id := range u.Courses {
			purchased[id] = struct{}{}
		}
		progress := make(map[string]float64, len(u.Progress))
		for _, p := range u.Progress {
			if v, ok := p.Completion(); ok {
				progress[p.CourseID] = v
			}
		}

		for _, c := range courses {
			r := Record{UserID: u.ID, CourseID: c.ID, Progress: progress[c.ID]}
			if _, ok := purchased[c.ID]; ok {
				r.Purchased = 1
			}
			records = append(records, r)
		}
	}
	return records
}

// Matrix 是稠密的 用户×课程 交互分矩阵，缺失的组合为 0。
// 行、列按 ID 字典序排列。
type Matrix struct {
	userIDs   []string
	courseIDs []string
	userPos   map[string]int
	coursePos map[string]int
	values    [][]float64
}

// Build 从课程与用户构建交互矩阵。任一输入为空时返回空矩阵（不是错误）。
func Build(courses []core.Course, users []core.User) *Matrix {
	return FromRecords(BuildRecords(courses, users))
}

// FromRecords 把交互记录透视为稠密矩阵。同一 (user, course) 重复出现时保留第一条。
func FromRecords(records []Record) *Matrix {
	m := &Matrix{
		userPos:   make(map[string]int),
		coursePos: make(map[string]int),
	}
	if len(records) == 0 {
		return m
	}

	for _, r := range records {
		if _, ok := m.userPos[r.UserID]; !ok {
			m.userPos[r.UserID] = -1
			m.userIDs = append(m.userIDs, r.UserID)
		}
		if _, ok := m.coursePos[r.CourseID]; !ok {
			m.coursePos[r.CourseID] = -1
			m.courseIDs = append(m.courseIDs, r.CourseID)
		}
	}
	sort.Strings(m.userIDs)
	sort.Strings(m.courseIDs)
	for i, id := range m.userIDs {
		m.userPos[id] = i
	}
	for j, id := range m.courseIDs {
		m.coursePos[id] = j
	}

	m.values = make([][]float64, len(m.userIDs))
	for i := range m.values {
		m.values[i] = make([]float64, len(m.courseIDs))
	}
	seen := make(map[[2]int]struct{}, len(records))
	for _, r := range records {
		key := [2]int{m.userPos[r.UserID], m.coursePos[r.CourseID]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		m.values[key[0]][key[1]] = r.Score()
	}
	return m
}

// Empty 表示没有协同信号可用。
func (m *Matrix) Empty() bool {
	return m == nil || len(m.userIDs) == 0 || len(m.courseIDs) == 0
}

func (m *Matrix) UserIDs() []string   { return m.userIDs }
func (m *Matrix) CourseIDs() []string { return m.courseIDs }

// Rows 返回底层的行数据（只读）。
func (m *Matrix) Rows() [][]float64 { return m.values }

// UserIndex 返回用户所在行。
func (m *Matrix) UserIndex(userID string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.userPos[userID]
	return i, ok
}

// CourseIndex 返回课程所在列。
func (m *Matrix) CourseIndex(courseID string) (int, bool) {
	if m == nil {
		return 0, false
	}
	j, ok := m.coursePos[courseID]
	return j, ok
}

// Value 按行列号读取交互分。
func (m *Matrix) Value(userIdx, courseIdx int) float64 {
	return m.values[userIdx][courseIdx]
}

// Get 按 ID 读取交互分，未知 ID 返回 0。
func (m *Matrix) Get(userID, courseID string) float64 {
	i, ok := m.UserIndex(userID)
	if !ok {
		return 0
	}
	j, ok := m.CourseIndex(courseID)
	if !ok {
		return 0
	}
	return m.values[i][j]
}

// Interacted 返回用户交互分大于 0 的课程列号（按列顺序）。
func (m *Matrix) Interacted(userIdx int) []int {
	out := make([]int, 0)
	for j, v := range m.values[userIdx] {
		if v > 0 {
			out = append(out, j)
		}
	}
	return out
}
