package feature

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/rushteam/lmsrec/core"
)

func TestExtractTopics(t *testing.T) {
	tests := []struct {
		name   string
		course core.Course
		want   Topics
	}{
		{
			name:   "related term adds key and term",
			course: core.Course{Name: "Django Basics", Categories: "Web"},
			want:   Topics{"python", "django", "backend"},
		},
		{
			name:   "key match is case insensitive",
			course: core.Course{Name: "GOLANG for experts"},
			want:   Topics{"golang"},
		},
		{
			name: "prerequisites and lessons are scanned",
			course: core.Course{
				Name:          "Capstone",
				Prerequisites: []core.Titled{{Title: "Kubernetes"}},
			},
			want: Topics{"devops", "kubernetes"},
		},
		{
			name:   "multi word related terms",
			course: core.Course{Name: "Gin-Gonic REST API in Go"},
			want:   Topics{"backend", "rest api", "golang", "gin-gonic"},
		},
		{
			name:   "no match",
			course: core.Course{Name: "Watercolor painting"},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTopics(tt.course); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTopics() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractTopics_CommonWords(t *testing.T) {
	texts := []string{
		"A beginner friendly course on watercolor painting",
		"Scenarios every community manager should know",
		"Interest rates and capital markets",
		"Regular expression basics",
		"Tax laws explained",
		"Swiftly sketching landscapes",
	}
	for _, text := range texts {
		if got := ExtractTopics(core.Course{Description: text}); len(got) != 0 {
			t.Errorf("ExtractTopics(%q) = %v, want no topics", text, got)
		}
	}
}

func TestTopics_SharedAndUnion(t *testing.T) {
	a := Topics{"python", "django", "backend"}
	b := Topics{"backend", "python", "flask"}

	if got, want := a.Shared(b), (Topics{"python", "backend"}); !reflect.DeepEqual(got, want) {
		t.Errorf("Shared() = %v, want %v", got, want)
	}
	if got, want := a.Union(b), (Topics{"python", "django", "backend", "flask"}); !reflect.DeepEqual(got, want) {
		t.Errorf("Union() = %v, want %v", got, want)
	}
	if len(a) != 3 {
		t.Errorf("Union() must not mutate receiver, len = %d", len(a))
	}
}

func TestTechTopics_ReturnsCopy(t *testing.T) {
	table := TechTopics()
	table[0].Key = "mutated"
	table[0].Related[0] = "mutated"
	if TechTopics()[0].Key == "mutated" || RelatedTerms("java")[0] == "mutated" {
		t.Error("TechTopics() must not expose the package table")
	}
}

func TestBuildCourseText(t *testing.T) {
	c := core.Course{
		Name:     "Intro",
		Level:    "Beginner",
		Benefits: []core.Titled{{Title: "Confidence"}},
		Contents: []core.ContentBlock{{Title: "Lesson one", Section: "Setup"}},
	}

	got := BuildCourseText(c, nil)
	want := "Intro Intro Beginner Confidence Lesson one Setup"
	if got != want {
		t.Errorf("BuildCourseText() = %q, want %q", got, want)
	}

	got = BuildCourseText(core.Course{Name: "Intro"}, Topics{"golang"})
	if !strings.HasSuffix(got, "golang golang golang goroutine gin-gonic grpc") {
		t.Errorf("topic weighting missing, got %q", got)
	}
}

func TestVectorizer_Tokenize(t *testing.T) {
	v, err := NewVectorizer()
	if err != nil {
		t.Fatalf("NewVectorizer() error = %v", err)
	}
	got := v.Tokenize("The quick and the DEAD, a x y")
	if want := []string{"quick", "dead"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestVectorizer_FitTransform(t *testing.T) {
	v, _ := NewVectorizer()
	vecs, err := v.FitTransform([]string{"apple banana", "apple cherry", "apple banana"})
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if got := v.Vocabulary(); !reflect.DeepEqual(got, []string{"apple", "banana", "cherry"}) {
		t.Fatalf("Vocabulary() = %v", got)
	}

	// apple: df=3 -> idf 1; banana: df=2 -> idf ln(4/3)+1
	idfBanana := math.Log(4.0/3.0) + 1
	norm := math.Sqrt(1 + idfBanana*idfBanana)
	if got := vecs[0][0]; math.Abs(got-1/norm) > 1e-9 {
		t.Errorf("apple weight = %v, want %v", got, 1/norm)
	}
	if got := vecs[0][1]; math.Abs(got-idfBanana/norm) > 1e-9 {
		t.Errorf("banana weight = %v, want %v", got, idfBanana/norm)
	}
	if _, ok := vecs[0][2]; ok {
		t.Error("doc 0 should not contain cherry")
	}

	var sq float64
	for _, w := range vecs[1] {
		sq += w * w
	}
	if math.Abs(sq-1) > 1e-9 {
		t.Errorf("vector not L2 normalised, |v|^2 = %v", sq)
	}

	if !reflect.DeepEqual(vecs[0], vecs[2]) {
		t.Error("identical documents should produce identical vectors")
	}
}

func TestVectorizer_Transform(t *testing.T) {
	v, _ := NewVectorizer()
	vecs, err := v.FitTransform([]string{"apple banana", "apple cherry"})
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if got := v.Transform("Apple, banana!"); !reflect.DeepEqual(got, vecs[0]) {
		t.Errorf("Transform() = %v, want %v", got, vecs[0])
	}
	if got := v.Transform("apple durian"); len(got) != 1 || math.Abs(got[0]-1) > 1e-9 {
		t.Errorf("Transform() with unknown word = %v, want {0: 1}", got)
	}
	if got := v.Transform("durian"); len(got) != 0 {
		t.Errorf("Transform() of unknown words = %v, want empty", got)
	}
}

func TestVectorizer_EmptyVocabulary(t *testing.T) {
	v, _ := NewVectorizer()
	_, err := v.FitTransform([]string{"the and of", "a", ""})
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("FitTransform() error = %v, want ErrEmptyVocabulary", err)
	}
}
