package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/rules"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

var (
	cohortStart = time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)
	cohortEnd   = time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store       repository.Store
	metrics     *MetricsService
	cache       *CacheService
	cacheRepo   *memoryCache
	engine      *RelationshipEngine
	programs    *ProgramService
	cohorts     *CohortService
	mentors     *MentorService
	students    *StudentService
	assignments *AssignmentService
	lifecycle   *LifecycleService
	exports     *ExportService
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	return newFixtureWithStore(t, policy, repository.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, policy Policy, base repository.Store) *fixture {
	t.Helper()
	logger := zap.NewNop()
	validate := validator.New()
	metrics := NewMetricsService()
	store := InstrumentStore(base, metrics)
	cacheRepo := newMemoryCache()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, logger, true)
	engine := NewRelationshipEngine(logger, metrics)

	f := &fixture{store: store, metrics: metrics, cache: cache, cacheRepo: cacheRepo, engine: engine}
	f.programs = NewProgramService(store, validate, logger, metrics)
	f.cohorts = NewCohortService(store, engine, cache, policy, validate, logger, metrics)
	f.mentors = NewMentorService(store, engine, cache, policy, validate, logger, metrics)
	f.students = NewStudentService(store, policy, validate, logger, metrics)
	f.assignments = NewAssignmentService(store, engine, cache, validate, logger, metrics)
	f.lifecycle = NewLifecycleService(f.programs, f.cohorts, f.mentors, f.students)
	f.exports = NewExportService(store, logger, nil, nil)
	return f
}

func (f *fixture) program(t *testing.T) *models.Program {
	t.Helper()
	p, err := f.programs.Create(context.Background(), CreateProgramRequest{Name: "Backend Engineering", Status: "active"})
	require.NoError(t, err)
	return p
}

func (f *fixture) cohort(t *testing.T, programID string, capacity int) *models.Cohort {
	t.Helper()
	c, err := f.cohorts.Create(context.Background(), CreateCohortRequest{
		ProgramID: programID,
		Name:      "Cohort",
		Capacity:  capacity,
		StartDate: cohortStart,
		EndDate:   cohortEnd,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) mentor(t *testing.T, maxCohorts int) *models.Mentor {
	t.Helper()
	m, err := f.mentors.Create(context.Background(), CreateMentorRequest{Name: "Ada", Email: "ada@example.com", MaxCohorts: maxCohorts})
	require.NoError(t, err)
	return m
}

func (f *fixture) student(t *testing.T, cohortID string) *models.Student {
	t.Helper()
	s, _, err := f.students.Create(context.Background(), CreateStudentRequest{Name: "Lin", Email: "lin@example.com", CohortID: cohortID})
	require.NoError(t, err)
	return s
}

func (f *fixture) assign(t *testing.T, mentorID, cohortID string) {
	t.Helper()
	_, err := f.assignments.Confirm(context.Background(), AssignmentRequest{MentorID: mentorID, CohortID: cohortID})
	require.NoError(t, err)
}

func requireReason(t *testing.T, err error, reason rules.ReasonCode) {
	t.Helper()
	require.Error(t, err)
	assert.Truef(t, appErrors.HasCode(err, string(reason)), "want %s, got %v", reason, err)
	assert.True(t, appErrors.IsKind(err, appErrors.KindGuard))
}

func strPtr(s string) *string { return &s }

// memoryCache is a CacheRepository kept in a map, storing JSON like Redis.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := pattern[:len(pattern)-1]
	for key := range c.items {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
