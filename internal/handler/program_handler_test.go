package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/service"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
)

func TestProgramHandlerCRUD(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	id := srv.create(t, "/programs", gin.H{"name": "Data Science"})

	w := srv.do(t, http.MethodGet, apiPrefix+"/programs/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `W/"1"`, w.Header().Get("ETag"))
	var program models.Program
	decode(t, w, &program)
	assert.Equal(t, models.ProgramDraft, program.Status)

	w = srv.do(t, http.MethodPut, apiPrefix+"/programs/"+id, gin.H{"name": "Data Science II"}, "If-Match", `W/"1"`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `W/"2"`, w.Header().Get("ETag"))

	w = srv.do(t, http.MethodPost, apiPrefix+"/programs/"+id+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var dup models.Program
	decode(t, w, &dup)
	assert.Equal(t, "Data Science II (copy)", dup.Name)
	assert.NotEqual(t, id, dup.ID)

	w = srv.do(t, http.MethodGet, apiPrefix+"/programs?status=draft&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Program
	env := decode(t, w, &list)
	assert.Len(t, list, 1)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.TotalCount)

	w = srv.do(t, http.MethodDelete, apiPrefix+"/programs/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, apiPrefix+"/programs/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgramHandlerStaleIfMatch(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	id := srv.program(t)

	w := srv.do(t, http.MethodPut, apiPrefix+"/programs/"+id, gin.H{"name": "Renamed"}, "If-Match", `"7"`)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, appErrors.ErrStaleVersion.Code, env.Error.Code)

	w = srv.do(t, http.MethodPut, apiPrefix+"/programs/"+id, gin.H{"name": "Renamed"}, "If-Match", "latest")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgramHandlerRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())

	w := srv.do(t, http.MethodPost, apiPrefix+"/programs", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)

	w = srv.do(t, http.MethodPost, apiPrefix+"/programs", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, apiPrefix+"/programs?status=retired", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgramHandlerDeleteGuard(t *testing.T) {
	srv := newTestServer(t, service.DefaultPolicy())
	programID := srv.program(t)

	w := srv.do(t, http.MethodDelete, apiPrefix+"/programs/"+programID, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, appErrors.KindGuard, env.Error.Kind)
}
