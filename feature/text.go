// Package feature 从课程文档构建内容特征：加权文本、技术主题与 TF-IDF 向量。
package feature

import (
	"strings"

	"github.com/rushteam/lmsrec/core"
)

// TopicRepeat 是每个主题追加到特征文本中的次数。
const TopicRepeat = 3

// CourseFeatures 是一门课程的内容特征。
type CourseFeatures struct {
	CourseID string
	Text     string
	Topics   Topics
}

// BuildCourseText 拼接课程的特征文本：名称（两次）、分类、标签、级别、描述、
// 收获与先修标题、课时字段，然后追加每个主题三次及其全部相关词。
func BuildCourseText(c core.Course, topics Topics) string {
	parts := make([]string, 0, 16)
	appendNonEmpty := func(s ...string) {
		for _, v := range s {
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
	}

	appendNonEmpty(c.Name, c.Name, c.Categories, c.Tags, c.Level, c.Description)
	for _, b := range c.Benefits {
		appendNonEmpty(b.Title)
	}
	for _, p := range c.Prerequisites {
		appendNonEmpty(p.Title)
	}
	for _, b := range c.Contents {
		appendNonEmpty(b.Title, b.Description, b.Section, b.Suggestion)
	}

	for _, t := range topics {
		for i := 0; i < TopicRepeat; i++ {
			parts = append(parts, t)
		}
		parts = append(parts, RelatedTerms(t)...)
	}
	return strings.Join(parts, " ")
}

// Build 为每门课程计算主题与特征文本，顺序与输入一致。
func Build(courses []core.Course) []CourseFeatures {
	out := make([]CourseFeatures, len(courses))
	for i, c := range courses {
		topics := ExtractTopics(c)
		out[i] = CourseFeatures{
			CourseID: c.ID,
			Text:     BuildCourseText(c, topics),
			Topics:   topics,
		}
	}
	return out
}
