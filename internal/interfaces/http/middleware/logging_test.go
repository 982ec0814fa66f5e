package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/testutil"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
	inFlight int
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func (f *fakeRecorder) TrackInFlight(string) func() {
	f.inFlight++
	return func() { f.inFlight-- }
}

func newLoggedRouter(t *testing.T, logger *testutil.MockLogger, rec *fakeRecorder) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(AccessLog(logger, rec, DefaultAccessLogConfig()))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/api/v1/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":"p-1"}`))
	})
	r.Get("/api/v1/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	return r
}

func TestAccessLog_LevelsByStatus(t *testing.T) {
	logger := testutil.NewMockLogger()
	rec := &fakeRecorder{}
	router := newLoggedRouter(t, logger, rec)

	for _, path := range []string{"/api/v1/projects/p-1", "/api/v1/projects/missing", "/api/v1/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entry, ok := logger.Find("info", "request completed")
	require.True(t, ok)
	route, _ := entry.Field("route")
	assert.Equal(t, "/api/v1/projects/{id}", route)
	status, _ := entry.Field("status")
	assert.Equal(t, http.StatusOK, status)
	_, hasID := entry.Field("request_id")
	assert.True(t, hasID)

	assert.True(t, logger.HasMessage("warn", "request rejected"))
	assert.True(t, logger.HasMessage("error", "request failed"))
}

func TestAccessLog_RecordsRoutePatterns(t *testing.T) {
	rec := &fakeRecorder{}
	router := newLoggedRouter(t, testutil.NewMockLogger(), rec)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/projects/p-9", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/api/v1/projects/{id}", http.StatusOK}, rec.requests[0])
	assert.Equal(t, http.StatusNotFound, rec.requests[1].status)
	assert.Equal(t, 0, rec.inFlight)
}

func TestAccessLog_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	rec := &fakeRecorder{}
	router := newLoggedRouter(t, logger, rec)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Empty(t, logger.GetMessages())
	assert.Empty(t, rec.requests)
}

//Personal.AI order the ending
