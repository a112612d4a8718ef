package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/lmsrec/core"
	"github.com/rushteam/lmsrec/dataset"
)

func ptr[T any](v T) *T { return &v }

func testSource() *dataset.StaticSource {
	return &dataset.StaticSource{
		Courses: []core.Course{
			{ID: "c1", Name: "Python for Data Analysis", Description: "Learn pandas and numpy", Rating: ptr(5.0), Purchased: ptr(1)},
			{ID: "c2", Name: "Advanced Python", Description: "Generators and numpy internals", Rating: ptr(4.0), Purchased: ptr(10)},
			{ID: "c3", Name: "Watercolor painting", Description: "Brushes and colors"},
		},
		Users: []core.User{
			{ID: "u1", Courses: []string{"c1"}},
			{ID: "u2", Courses: []string{"c1", "c2"}},
		},
	}
}

func newTestServer(src dataset.Source) *Server {
	return New(src, Config{Mode: "test"})
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeRecommendations(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	ids := make([]string, 0, len(resp.Recommendations))
	for _, c := range resp.Recommendations {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestRoot(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"LMS Recommender API is running"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(testSource())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(requestIDHeader))
}

func TestRecommendForUser(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/recommend/user/u1?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"c2"}, decodeRecommendations(t, w))
}

func TestRecommendForUnknownUser(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/recommend/user/nobody")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recommendations":[]}`, w.Body.String())
}

func TestRecommendSimilar(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/recommend/similar/c1?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"c2"}, decodeRecommendations(t, w))
}

func TestRecommendPopular(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/recommend/popular")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"c2", "c1", "c3"}, decodeRecommendations(t, w))

	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	first := raw["recommendations"][0]
	assert.Equal(t, "c2", first["_id"])
	assert.Equal(t, 4.0, first["ratings"])
	assert.Equal(t, 10.0, first["purchased"])
	_, hasRating := raw["recommendations"][2]["ratings"]
	assert.False(t, hasRating, "missing rating should be omitted")
}

func TestBadLimit(t *testing.T) {
	s := newTestServer(testSource())
	for _, url := range []string{
		"/recommend/popular?limit=abc",
		"/recommend/user/u1?limit=-1",
		"/recommend/similar/c1?limit=1.5",
	} {
		w := get(t, s, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)

		var body ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, core.ErrorCodeInvalidInput, body.Code)
	}
}

func TestZeroLimit(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/recommend/popular?limit=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeRecommendations(t, w))
}

func TestSourceFailure(t *testing.T) {
	src := &dataset.StaticSource{Err: errors.New("connection refused")}
	s := newTestServer(src)

	w := get(t, s, "/recommend/popular")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, core.ErrorCodeUnavailable, body.Code)
	assert.Contains(t, body.Message, "connection refused")

	w = get(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(testSource()), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(testSource())
	_ = get(t, s, "/recommend/popular")
	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lmsrec_recommend_requests_total")
}
