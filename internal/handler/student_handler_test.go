package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	"github.com/noah-isme/cohort-api/internal/service"
)

func TestStudentHandlerHardCapacity(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	cohortID := srv.cohort(t, srv.program(t), 1)
	srv.student(t, cohortID)

	w := srv.do(t, http.MethodPost, apiPrefix+"/students", gin.H{"name": "Kai", "email": "kai@example.com", "cohort_id": cohortID})
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, string(rules.ReasonCohortAtCapacity), env.Error.Code)
}

func TestStudentHandlerSoftCapacityWarning(t *testing.T) {
	policy := service.DefaultPolicy()
	policy.CapacityMode = rules.CapacitySoft
	srv := newTestServer(t, policy)
	cohortID := srv.cohort(t, srv.program(t), 1)

	w := srv.do(t, http.MethodPost, apiPrefix+"/students", gin.H{"name": "Lin", "email": "lin@example.com", "cohort_id": cohortID})
	require.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w, nil)
	assert.Nil(t, env.Meta)

	w = srv.do(t, http.MethodPost, apiPrefix+"/students", gin.H{"name": "Kai", "email": "kai@example.com", "cohort_id": cohortID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env = decode(t, w, nil)
	assert.Equal(t, true, env.Meta["capacity_warning"])
	assert.Equal(t, string(rules.ReasonCohortAtCapacity), env.Meta["warning_reason"])
}

func TestStudentHandlerProgressAndNotes(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	cohortID := srv.cohort(t, srv.program(t), 10)
	studentID := srv.student(t, cohortID)
	base := apiPrefix + "/students/" + studentID

	w := srv.do(t, http.MethodPut, base+"/progress", gin.H{"progress": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var student models.Student
	decode(t, w, &student)
	assert.Equal(t, 40, student.Progress)
	assert.Equal(t, models.StudentActive, student.Status)
	assert.NotNil(t, student.LastActivityAt)

	w = srv.do(t, http.MethodPut, base+"/progress", gin.H{"progress": 101})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPut, base+"/payment", gin.H{"payment_status": "overdue"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, base+"/activity", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, content := range []string{"kickoff call", "missed standup"} {
		w = srv.do(t, http.MethodPost, base+"/notes", gin.H{"author": "ops", "content": content})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w = srv.do(t, http.MethodGet, base+"/notes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []models.StudentNote
	decode(t, w, &notes)
	require.Len(t, notes, 2)
	assert.Equal(t, "kickoff call", notes[0].Content)

	w = srv.do(t, http.MethodGet, apiPrefix+"/students?payment_status=overdue&cohort_id="+cohortID, nil)
	var students []models.Student
	decode(t, w, &students)
	assert.Len(t, students, 1)
}

func TestStudentHandlerTransferAndMentor(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	programID := srv.program(t)
	from := srv.cohort(t, programID, 10)
	to := srv.cohort(t, programID, 10)
	mentorID := srv.mentor(t, 2)
	studentID := srv.student(t, from)
	base := apiPrefix + "/students/" + studentID

	w := srv.do(t, http.MethodPut, base+"/mentor", gin.H{"mentor_id": mentorID})
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, string(rules.ReasonMentorNotInCohort), env.Error.Code)

	w = srv.do(t, http.MethodPost, apiPrefix+"/assignments/confirm", gin.H{"mentor_id": mentorID, "cohort_id": from})
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do(t, http.MethodPut, base+"/mentor", gin.H{"mentor_id": mentorID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, http.MethodPut, base+"/transfer", gin.H{"cohort_id": to})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("ETag"))
	var student models.Student
	decode(t, w, &student)
	assert.Equal(t, to, student.CohortID)
	assert.Nil(t, student.MentorID)

	w = srv.do(t, http.MethodPut, base+"/transfer", gin.H{"cohort_id": to})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
