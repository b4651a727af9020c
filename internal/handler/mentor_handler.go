package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cohort-api/internal/middleware"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/service"
	"github.com/noah-isme/cohort-api/pkg/response"
)

// MentorHandler exposes mentor endpoints.
type MentorHandler struct {
	service     *service.MentorService
	assignments *service.AssignmentService
}

// NewMentorHandler constructs a mentor handler.
func NewMentorHandler(svc *service.MentorService, assignments *service.AssignmentService) *MentorHandler {
	return &MentorHandler{service: svc, assignments: assignments}
}

// List godoc
// @Summary List mentors
// @Tags Mentors
// @Produce json
// @Param status query string false "active or inactive"
// @Param availability query string false "available, limited or unavailable"
// @Param search query string false "Name or email contains"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	status, ok := enumQuery(c, "status", models.ParseMentorStatus)
	if !ok {
		return
	}
	availability, ok := enumQuery(c, "availability", models.ParseAvailabilityStatus)
	if !ok {
		return
	}
	filter := models.MentorFilter{Status: status, Availability: availability, Search: c.Query("search")}
	filter.Page, filter.PageSize = pageParams(c)

	mentors, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, pagination)
}

// Get godoc
// @Summary Get mentor
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, mentor.Version, mentor)
}

// Create godoc
// @Summary Create mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body service.CreateMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Router /mentors [post]
func (h *MentorHandler) Create(c *gin.Context) {
	var req service.CreateMentorRequest
	if !bindJSON(c, &req) {
		return
	}
	mentor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// UpdateCapacity godoc
// @Summary Change how many cohorts the mentor may lead
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body service.UpdateMentorCapacityRequest true "Capacity payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "MAX_COHORTS_BELOW_ASSIGNED"
// @Router /mentors/{id}/capacity [put]
func (h *MentorHandler) UpdateCapacity(c *gin.Context) {
	var req service.UpdateMentorCapacityRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	mentor, err := h.service.UpdateCapacity(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, mentor.Version, mentor)
}

// UpdateAvailability godoc
// @Summary Set mentor availability
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body service.UpdateMentorAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/availability [put]
func (h *MentorHandler) UpdateAvailability(c *gin.Context) {
	var req service.UpdateMentorAvailabilityRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	mentor, err := h.service.UpdateAvailability(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, mentor.Version, mentor)
}

// EligibleCohorts godoc
// @Summary Cohorts the mentor could be assigned to
// @Tags Assignments
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id}/eligible-cohorts [get]
func (h *MentorHandler) EligibleCohorts(c *gin.Context) {
	cohorts, hit, err := h.assignments.EligibleCohorts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, cohorts, middleware.ExtractMeta(c))
}
