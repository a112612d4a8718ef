package core

// Course 是课程实体。一次推荐会话内只读，每次会话从数据源重新构建。
// JSON 字段名沿用课程库的文档字段（_id / ratings / purchased）。
type Course struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Categories  string `json:"categories,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Level       string `json:"level,omitempty"`

	// Rating 与 Purchased 可能缺失（nil）
	Rating    *float64 `json:"ratings,omitempty"`
	Purchased *int     `json:"purchased,omitempty"`

	Benefits      []Titled       `json:"benefits,omitempty"`
	Prerequisites []Titled       `json:"prerequisites,omitempty"`
	Contents      []ContentBlock `json:"courseData,omitempty"`
}

// Titled 是只有标题的子文档（收获、先修要求）。
type Titled struct {
	Title string `json:"title"`
}

// ContentBlock 是课程的一个课时/内容块。
type ContentBlock struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Section     string `json:"videoSection,omitempty"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// RatingValue 返回评分，缺失时为 0。
func (c *Course) RatingValue() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// PurchasedValue 返回购买数，缺失时为 0。
func (c *Course) PurchasedValue() float64 {
	if c.Purchased == nil {
		return 0
	}
	return float64(*c.Purchased)
}

// CourseIndex 按 ID 索引课程，保留原始顺序。
type CourseIndex struct {
	courses []Course
	pos     map[string]int
}

func NewCourseIndex(courses []Course) *CourseIndex {
	idx := &CourseIndex{
		courses: courses,
		pos:     make(map[string]int, len(courses)),
	}
	for i, c := range courses {
		if _, dup := idx.pos[c.ID]; dup {
			continue
		}
		idx.pos[c.ID] = i
	}
	return idx
}

// Get 按 ID 获取课程。
func (idx *CourseIndex) Get(id string) (Course, bool) {
	i, ok := idx.pos[id]
	if !ok {
		return Course{}, false
	}
	return idx.courses[i], true
}

// Position 返回课程在原始列表中的位置。
func (idx *CourseIndex) Position(id string) (int, bool) {
	i, ok := idx.pos[id]
	return i, ok
}

// All 返回原始顺序的课程列表。
func (idx *CourseIndex) All() []Course { return idx.courses }

func (idx *CourseIndex) Len() int { return len(idx.courses) }

// Resolve 按 items 顺序解析为完整课程，未知 ID 被跳过。
func (idx *CourseIndex) Resolve(items []*Item) []Course {
	out := make([]Course, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if c, ok := idx.Get(it.ID); ok {
			out = append(out, c)
		}
	}
	return out
}
