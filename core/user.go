package core

// User 是学员实体。Email 不参与推荐计算。
type User struct {
	ID       string           `json:"_id"`
	Name     string           `json:"name"`
	Email    string           `json:"email,omitempty"`
	Courses  []string         `json:"courses,omitempty"` // 已购课程 ID
	Progress []CourseProgress `json:"progress,omitempty"`
}

// CourseProgress 记录某门课程各章节的完成情况。
type CourseProgress struct {
	CourseID string `json:"courseId"`
	Chapters []bool `json:"chapters"`
}

// Completion 返回完成章节数 / 总章节数；没有章节时 ok 为 false。
func (p CourseProgress) Completion() (float64, bool) {
	if len(p.Chapters) == 0 {
		return 0, false
	}
	done := 0
	for _, c := range p.Chapters {
		if c {
			done++
		}
	}
	return float64(done) / float64(len(p.Chapters)), true
}

// HasPurchased 判断用户是否购买过课程。
func (u *User) HasPurchased(courseID string) bool {
	for _, id := range u.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}

// FindUser 在列表中按 ID 查找用户。
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
