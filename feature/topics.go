package feature

import (
	"strings"

	"github.com/rushteam/lmsrec/core"
)

// TechTopic 是技术关系表的一行：规范化的技术名 + 相关词（框架、工具、同义词）。
type TechTopic struct {
	Key     string
	Related []string
}

// techTopics 是静态的技术关系表，按固定顺序扫描，运行期不修改。
var techTopics = []TechTopic{
	{Key: "java", Related: []string{"spring", "spring boot", "hibernate", "jvm", "maven", "gradle", "kotlin"}},
	{Key: "python", Related: []string{"django", "flask", "fastapi", "pandas", "numpy", "jupyter"}},
	{Key: "javascript", Related: []string{"typescript", "node", "nodejs", "express.js", "react", "vue", "angular", "es6"}},
	{Key: "frontend", Related: []string{"html", "css", "react", "vue", "angular", "tailwind", "bootstrap", "responsive design"}},
	{Key: "backend", Related: []string{"rest api", "restful", "graphql", "microservices", "server", "node", "express.js", "django", "spring"}},
	{Key: "mobile", Related: []string{"android", "xcode", "flutter", "react native", "swiftui", "kotlin"}},
	{Key: "data science", Related: []string{"pandas", "numpy", "statistics", "visualization", "analytics", "matplotlib"}},
	{Key: "machine learning", Related: []string{"deep learning", "tensorflow", "pytorch", "scikit", "neural network", "artificial intelligence", "nlp"}},
	{Key: "devops", Related: []string{"docker", "kubernetes", "ci/cd", "jenkins", "terraform", "ansible", "linux"}},
	{Key: "database", Related: []string{"sql", "mysql", "postgresql", "mongodb", "redis", "nosql"}},
	{Key: "cloud", Related: []string{"amazon web services", "azure", "gcp", "serverless", "lambda"}},
	{Key: "security", Related: []string{"cybersecurity", "penetration testing", "encryption", "owasp", "ethical hacking"}},
	{Key: "golang", Related: []string{"goroutine", "gin-gonic", "grpc"}},
	{Key: "blockchain", Related: []string{"ethereum", "solidity", "web3", "smart contract"}},
	{Key: "game development", Related: []string{"unity3d", "unreal", "c#", "godot"}},
}

// TechTopics 返回技术关系表的副本（按扫描顺序）。
func TechTopics() []TechTopic {
	out := make([]TechTopic, len(techTopics))
	for i, t := range techTopics {
		out[i] = TechTopic{Key: t.Key, Related: append([]string(nil), t.Related...)}
	}
	return out
}

// RelatedTerms 返回技术名的相关词；不是技术名时返回 nil。
func RelatedTerms(key string) []string {
	for _, t := range techTopics {
		if t.Key == key {
			return t.Related
		}
	}
	return nil
}

// Topics 是按发现顺序去重的主题集合。
type Topics []string

func (ts Topics) Contains(topic string) bool {
	for _, t := range ts {
		if t == topic {
			return true
		}
	}
	return false
}

func (ts *Topics) add(topic string) {
	if !ts.Contains(topic) {
		*ts = append(*ts, topic)
	}
}

// Shared 返回两个主题集合的交集，保持 ts 的顺序。
func (ts Topics) Shared(other Topics) Topics {
	var out Topics
	for _, t := range ts {
		if other.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Union 把 other 中缺失的主题追加到 ts。
func (ts Topics) Union(other Topics) Topics {
	out := append(Topics(nil), ts...)
	for _, t := range other {
		out.add(t)
	}
	return out
}

// ExtractTopics 在课程文本（名称/分类/标签/描述/先修要求/课时）中大小写不敏感地匹配技术关系表。
// 命中技术名时加入技术名；命中相关词时加入技术名和该相关词。
func ExtractTopics(c core.Course) Topics {
	text := strings.ToLower(topicText(c))

	var topics Topics
	for _, t := range techTopics {
		if strings.Contains(text, t.Key) {
			topics.add(t.Key)
		}
		for _, term := range t.Related {
			if strings.Contains(text, term) {
				topics.add(t.Key)
				topics.add(term)
			}
		}
	}
	return topics
}

func topicText(c core.Course) string {
	parts := []string{c.Name, c.Categories, c.Tags, c.Description}
	for _, p := range c.Prerequisites {
		parts = append(parts, p.Title)
	}
	for _, b := range c.Contents {
		parts = append(parts, b.Title, b.Description, b.Section, b.Suggestion)
	}
	return strings.Join(parts, " ")
}
