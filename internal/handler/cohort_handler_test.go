package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	"github.com/noah-isme/cohort-api/internal/service"
)

func TestCohortHandlerArchiveAndRestore(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	cohortID := srv.cohort(t, srv.program(t), 10)

	w := srv.do(t, http.MethodPut, apiPrefix+"/cohorts/"+cohortID+"/status", gin.H{"status": "active"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = srv.do(t, http.MethodPut, apiPrefix+"/cohorts/"+cohortID+"/status", gin.H{"status": "archived"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPut, apiPrefix+"/cohorts/"+cohortID+"/status", gin.H{"status": "upcoming"})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, string(rules.ReasonInvalidTransition), decode(t, w, nil).Error.Code)

	w = srv.do(t, http.MethodPost, apiPrefix+"/cohorts/"+cohortID+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cohort models.Cohort
	decode(t, w, &cohort)
	assert.Equal(t, models.CohortActive, cohort.Status)
	assert.Nil(t, cohort.PreviousStatus)

	w = srv.do(t, http.MethodPost, apiPrefix+"/cohorts/"+cohortID+"/restore", gin.H{"version": cohort.Version})
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, string(rules.ReasonCohortNotArchived), env.Error.Code)
}

func TestCohortHandlerCreateValidation(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	programID := srv.program(t)

	w := srv.do(t, http.MethodPost, apiPrefix+"/cohorts", gin.H{
		"program_id": programID,
		"name":       "Backwards",
		"capacity":   10,
		"start_date": "2027-05-01T00:00:00Z",
		"end_date":   "2027-02-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, apiPrefix+"/cohorts", gin.H{
		"program_id": "missing",
		"name":       "Orphan",
		"capacity":   10,
		"start_date": "2027-02-01T00:00:00Z",
		"end_date":   "2027-05-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCohortHandlerRosterAndExport(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	cohortID := srv.cohort(t, srv.program(t), 10)
	srv.student(t, cohortID)

	w := srv.do(t, http.MethodGet, apiPrefix+"/cohorts/"+cohortID+"/students?status=invited", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var students []models.Student
	env := decode(t, w, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "Lin", students[0].Name)
	assert.Equal(t, 1, env.Pagination.TotalCount)

	w = srv.do(t, http.MethodGet, apiPrefix+"/cohorts/"+cohortID+"/students?payment_status=late", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, apiPrefix+"/cohorts/"+cohortID+"/roster/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "roster-"+cohortID+".csv")
	assert.Contains(t, w.Body.String(), "lin@example.com")

	w = srv.do(t, http.MethodGet, apiPrefix+"/cohorts/"+cohortID+"/roster/export?format=PDF", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = srv.do(t, http.MethodGet, apiPrefix+"/cohorts/"+cohortID+"/roster/export?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCohortHandlerDeleteWithStudents(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	cohortID := srv.cohort(t, srv.program(t), 10)
	studentID := srv.student(t, cohortID)

	w := srv.do(t, http.MethodDelete, apiPrefix+"/cohorts/"+cohortID, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, string(rules.ReasonCohortHasStudents), env.Error.Code)

	require.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, apiPrefix+"/students/"+studentID, nil).Code)
	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, apiPrefix+"/cohorts/"+cohortID, nil).Code)
}
