package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cohort-api/internal/service"
	"github.com/noah-isme/cohort-api/pkg/response"
)

// AssignmentHandler exposes the two-phase mentor to cohort assignment flow.
// Select previews eligibility without writing; confirm re-checks and commits.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Select godoc
// @Summary Preview an assignment
// @Description Reports whether the mentor could be assigned, with the reason code when not. Nothing is written.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Mentor and cohort"
// @Success 200 {object} response.Envelope
// @Router /assignments/select [post]
func (h *AssignmentHandler) Select(c *gin.Context) {
	var req service.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	preview, err := h.service.Select(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, preview)
}

// Confirm godoc
// @Summary Assign a mentor to a cohort
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Mentor and cohort"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Guard rejection with reason code"
// @Router /assignments/confirm [post]
func (h *AssignmentHandler) Confirm(c *gin.Context) {
	var req service.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Confirm(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Bulk godoc
// @Summary Assign a mentor to several cohorts at once
// @Description All cohorts are linked or none are.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.BulkAssignmentRequest true "Mentor and cohorts"
// @Success 200 {object} response.Envelope
// @Router /assignments/bulk [post]
func (h *AssignmentHandler) Bulk(c *gin.Context) {
	var req service.BulkAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.ConfirmMany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Remove godoc
// @Summary Remove a mentor from a cohort
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Mentor and cohort"
// @Success 200 {object} response.Envelope
// @Router /assignments/remove [post]
func (h *AssignmentHandler) Remove(c *gin.Context) {
	var req service.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Remove(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
