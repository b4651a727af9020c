package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/lifecycle"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/rules"
	"github.com/noah-isme/cohort-api/internal/service"
)

func TestLifecycleHandlerStudentStatus(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	studentID := srv.student(t, srv.cohort(t, srv.program(t), 10))
	path := apiPrefix + "/students/" + studentID + "/status"

	w := srv.do(t, http.MethodPut, path, gin.H{"status": "dropped", "reason": "  moved abroad "}, "If-Match", `W/"1"`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var student models.Student
	decode(t, w, &student)
	assert.Equal(t, models.StudentDropped, student.Status)
	require.NotNil(t, student.StatusReason)
	assert.Equal(t, "moved abroad", *student.StatusReason)

	w = srv.do(t, http.MethodPut, path, gin.H{"status": "active"})
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, string(rules.ReasonStudentTerminal), env.Error.Code)

	w = srv.do(t, http.MethodPut, path, gin.H{"status": "graduated"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLifecycleHandlerProgramTransitions(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	programID := srv.create(t, "/programs", gin.H{"name": "Design"})
	path := apiPrefix + "/programs/" + programID + "/status"

	for _, status := range []string{"active", "archived", "draft"} {
		w := srv.do(t, http.MethodPut, path, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", status, w.Body.String())
	}

	w := srv.do(t, http.MethodPut, path, gin.H{"status": "archived"})
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do(t, http.MethodPut, path, gin.H{"status": "active"})
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, string(rules.ReasonInvalidTransition), env.Error.Code)
}

func TestLifecycleHandlerDescribe(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())

	w := srv.do(t, http.MethodGet, apiPrefix+"/lifecycle/cohort", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var machine lifecycle.XStateJSON
	decode(t, w, &machine)
	assert.Equal(t, "upcoming", machine.Initial)
	assert.Contains(t, machine.States, "archived")

	w = srv.do(t, http.MethodGet, apiPrefix+"/lifecycle/widgets", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLifecycleHandlerUnknownEntityParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLifecycleHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/widgets/w1", nil)
	c.Params = gin.Params{{Key: "entityType", Value: "widgets"}, {Key: "id", Value: "w1"}}

	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
