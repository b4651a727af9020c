package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/service"
	appErrors "github.com/noah-isme/cohort-api/pkg/errors"
	"github.com/noah-isme/cohort-api/pkg/response"
)

// LifecycleHandler exposes status changes and deletion for every entity type.
type LifecycleHandler struct {
	service *service.LifecycleService
}

// NewLifecycleHandler constructs a lifecycle handler.
func NewLifecycleHandler(svc *service.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{service: svc}
}

func entityParam(c *gin.Context) (models.EntityType, bool) {
	entity, err := models.ParseEntityType(c.Param("entityType"))
	if err != nil {
		response.Error(c, appErrors.Validation(err, "unknown entity type"))
		return "", false
	}
	return entity, true
}

// UpdateStatus godoc
// @Summary Change the status of a program, cohort, mentor or student
// @Tags Lifecycle
// @Accept json
// @Produce json
// @Param entityType path string true "programs, cohorts, mentors or students"
// @Param id path string true "Entity ID"
// @Param If-Match header string false "Expected version"
// @Param payload body service.StatusChangeRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "INVALID_TRANSITION, SAME_STATUS or a guard reason"
// @Router /{entityType}/{id}/status [put]
func (h *LifecycleHandler) UpdateStatus(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	var req service.StatusChangeRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), entity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete godoc
// @Summary Delete an entity
// @Tags Lifecycle
// @Param entityType path string true "programs, cohorts, mentors or students"
// @Param id path string true "Entity ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /{entityType}/{id} [delete]
func (h *LifecycleHandler) Delete(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), entity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Describe godoc
// @Summary Describe an entity's state machine
// @Description XState-compatible JSON export.
// @Tags Lifecycle
// @Produce json
// @Param entityType path string true "program, cohort, mentor or student"
// @Success 200 {object} response.Envelope
// @Router /lifecycle/{entityType} [get]
func (h *LifecycleHandler) Describe(c *gin.Context) {
	entity, ok := entityParam(c)
	if !ok {
		return
	}
	machine, err := h.service.Describe(entity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, machine)
}
