package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
	"github.com/noah-isme/cohort-api/pkg/response"
)

// bindJSON decodes the request body into dst and renders a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// ifMatch fills version from an If-Match header when the body carried none.
// Both strong ("3") and weak (W/"3") tags are accepted.
func ifMatch(c *gin.Context, version **int64) bool {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || *version != nil {
		return true
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "If-Match must carry an entity version"))
		return false
	}
	*version = &v
	return true
}

func pageParams(c *gin.Context) (page, size int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}

// enumQuery parses an optional enum query parameter. A malformed value is
// rendered as a 400 and reported through ok=false.
func enumQuery[T any](c *gin.Context, key string, parse func(string) (T, error)) (value *T, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := parse(raw)
	if err != nil {
		response.Error(c, appErrors.Validation(err, "invalid "+key+" filter"))
		return nil, false
	}
	return &parsed, true
}
