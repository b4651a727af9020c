package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/middleware"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/service"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

const apiPrefix = "/api/v1"

type testServer struct {
	router  *gin.Engine
	metrics *service.MetricsService
}

func newTestServer(t *testing.T, policy service.Policy) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := service.NewMetricsService()
	store := service.InstrumentStore(repository.NewMemoryStore(), metrics)
	cache := service.NewCacheService(repository.NewCacheRepository(nil), metrics, 0, nil, true)
	engine := service.NewRelationshipEngine(nil, metrics)

	programs := service.NewProgramService(store, nil, nil, metrics)
	cohorts := service.NewCohortService(store, engine, cache, policy, nil, nil, metrics)
	mentors := service.NewMentorService(store, engine, cache, policy, nil, nil, metrics)
	students := service.NewStudentService(store, policy, nil, nil, metrics)
	assignments := service.NewAssignmentService(store, engine, cache, nil, nil, metrics)
	lifecycle := service.NewLifecycleService(programs, cohorts, mentors, students)
	exports := service.NewExportService(store, nil, nil, nil)

	r := gin.New()
	r.Use(middleware.Metrics(metrics, "/metrics"), middleware.ResponseMeta())
	RegisterSystemRoutes(r, NewSystemHandler(metrics, map[string]Pinger{"store": store}), true)
	RegisterRoutes(r.Group(apiPrefix), Handlers{
		Programs:    NewProgramHandler(programs),
		Cohorts:     NewCohortHandler(cohorts, assignments, exports),
		Mentors:     NewMentorHandler(mentors, assignments),
		Students:    NewStudentHandler(students),
		Assignments: NewAssignmentHandler(assignments),
		Lifecycle:   NewLifecycleHandler(lifecycle),
	})
	return &testServer{router: r, metrics: metrics}
}

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), w.Body.String())
	}
	return env
}

func (s *testServer) create(t *testing.T, path string, body interface{}) string {
	t.Helper()
	w := s.do(t, http.MethodPost, apiPrefix+path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	decode(t, w, &out)
	require.NotEmpty(t, out.ID)
	return out.ID
}

func (s *testServer) program(t *testing.T) string {
	return s.create(t, "/programs", gin.H{"name": "Backend Engineering", "status": "active"})
}

func (s *testServer) cohort(t *testing.T, programID string, capacity int) string {
	return s.create(t, "/cohorts", gin.H{
		"program_id": programID,
		"name":       "Spring",
		"capacity":   capacity,
		"start_date": "2027-02-01T00:00:00Z",
		"end_date":   "2027-05-01T00:00:00Z",
	})
}

func (s *testServer) mentor(t *testing.T, maxCohorts int) string {
	return s.create(t, "/mentors", gin.H{"name": "Ada", "email": "Ada@Example.com", "max_cohorts": maxCohorts})
}

func (s *testServer) student(t *testing.T, cohortID string) string {
	return s.create(t, "/students", gin.H{"name": "Lin", "email": "lin@example.com", "cohort_id": cohortID})
}
