package feature

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"

	"github.com/rushteam/lmsrec/core"
)

// ErrEmptyVocabulary 表示去掉停用词后所有文档都没有可用的词。
var ErrEmptyVocabulary = core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput, "feature: empty vocabulary, documents may only contain stop words")

// 两个及以上的字母/数字/下划线构成一个词。
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vector 是 L2 归一化后的稀疏 TF-IDF 向量（词表下标 -> 权重）。
type Vector map[int]float64

// Vectorizer 是带英文停用词过滤的 TF-IDF 向量化器。
//
// 权重规则：
//   - tf：词在文档中的原始出现次数
//   - idf：ln((1+n)/(1+df)) + 1（平滑）
//   - 每个文档向量做 L2 归一化
//
// 词表按字典序编号。
type Vectorizer struct {
	stopWords analysis.TokenMap

	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// NewVectorizer 创建使用英文停用词表的向量化器。
func NewVectorizer() (*Vectorizer, error) {
	stop := analysis.NewTokenMap()
	if err := stop.LoadBytes(en.EnglishStopWords); err != nil {
		return nil, err
	}
	return &Vectorizer{stopWords: stop}, nil
}

// Tokenize 小写化、切词并去掉停用词。
func (v *Vectorizer) Tokenize(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	out := raw[:0]
	for _, tok := range raw {
		if v.stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// FitTransform 在 docs 上学习词表与 idf，并返回每个文档的向量。
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokens := v.Tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	v.terms = make([]string, 0, len(df))
	for term := range df {
		v.terms = append(v.terms, term)
	}
	sort.Strings(v.terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(v.terms))
	v.idf = make([]float64, len(v.terms))
	for i, term := range v.terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	out := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		out[i] = v.weigh(tokens)
	}
	return out, nil
}

// Transform 用已学习的词表向量化新文档，未登录词被忽略。
func (v *Vectorizer) Transform(doc string) Vector {
	return v.weigh(v.Tokenize(doc))
}

// Vocabulary 返回按编号排列的词表。
func (v *Vectorizer) Vocabulary() []string { return v.terms }

func (v *Vectorizer) weigh(tokens []string) Vector {
	vec := make(Vector)
	for _, tok := range tokens {
		if idx, ok := v.vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for idx, tf := range vec {
		w := tf * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}
