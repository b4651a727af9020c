package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cohort-api/internal/middleware"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/service"
	"github.com/noah-isme/cohort-api/pkg/response"
)

// CohortHandler exposes cohort endpoints, including the roster and its export.
type CohortHandler struct {
	service     *service.CohortService
	assignments *service.AssignmentService
	exports     *service.ExportService
}

// NewCohortHandler constructs a cohort handler.
func NewCohortHandler(svc *service.CohortService, assignments *service.AssignmentService, exports *service.ExportService) *CohortHandler {
	return &CohortHandler{service: svc, assignments: assignments, exports: exports}
}

// List godoc
// @Summary List cohorts
// @Tags Cohorts
// @Produce json
// @Param program_id query string false "Program ID"
// @Param status query string false "upcoming, active, completed or archived"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /cohorts [get]
func (h *CohortHandler) List(c *gin.Context) {
	status, ok := enumQuery(c, "status", models.ParseCohortStatus)
	if !ok {
		return
	}
	filter := models.CohortFilter{ProgramID: c.Query("program_id"), Status: status}
	filter.Page, filter.PageSize = pageParams(c)

	cohorts, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cohorts, pagination)
}

// Get godoc
// @Summary Get cohort
// @Tags Cohorts
// @Produce json
// @Param id path string true "Cohort ID"
// @Success 200 {object} response.Envelope
// @Router /cohorts/{id} [get]
func (h *CohortHandler) Get(c *gin.Context) {
	cohort, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, cohort.Version, cohort)
}

// Create godoc
// @Summary Create cohort
// @Tags Cohorts
// @Accept json
// @Produce json
// @Param payload body service.CreateCohortRequest true "Cohort payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Program archived"
// @Router /cohorts [post]
func (h *CohortHandler) Create(c *gin.Context) {
	var req service.CreateCohortRequest
	if !bindJSON(c, &req) {
		return
	}
	cohort, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cohort)
}

// Update godoc
// @Summary Update cohort schedule and capacity
// @Tags Cohorts
// @Accept json
// @Produce json
// @Param id path string true "Cohort ID"
// @Param If-Match header string false "Expected version"
// @Param payload body service.UpdateCohortRequest true "Cohort payload"
// @Success 200 {object} response.Envelope
// @Router /cohorts/{id} [put]
func (h *CohortHandler) Update(c *gin.Context) {
	var req service.UpdateCohortRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	cohort, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, cohort.Version, cohort)
}

type restoreRequest struct {
	Version *int64 `json:"version,omitempty"`
}

// Restore godoc
// @Summary Restore an archived cohort
// @Description Target status follows COHORT_RESTORE_MODE.
// @Tags Cohorts
// @Produce json
// @Param id path string true "Cohort ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cohorts/{id}/restore [post]
func (h *CohortHandler) Restore(c *gin.Context) {
	var req restoreRequest
	if !bindOptionalJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	cohort, err := h.service.Restore(c.Request.Context(), c.Param("id"), req.Version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, cohort.Version, cohort)
}

// Students godoc
// @Summary List the cohort roster
// @Tags Cohorts
// @Produce json
// @Param id path string true "Cohort ID"
// @Param status query string false "Student status"
// @Param payment_status query string false "Payment status"
// @Param mentor_id query string false "Personal mentor"
// @Param search query string false "Name or email contains"
// @Success 200 {object} response.Envelope
// @Router /cohorts/{id}/students [get]
func (h *CohortHandler) Students(c *gin.Context) {
	status, ok := enumQuery(c, "status", models.ParseStudentStatus)
	if !ok {
		return
	}
	payment, ok := enumQuery(c, "payment_status", models.ParsePaymentStatus)
	if !ok {
		return
	}
	filter := models.StudentFilter{
		MentorID:      c.Query("mentor_id"),
		Status:        status,
		PaymentStatus: payment,
		Search:        c.Query("search"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	students, pagination, err := h.service.Roster(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// EligibleMentors godoc
// @Summary Mentors that could be assigned to the cohort
// @Tags Assignments
// @Produce json
// @Param id path string true "Cohort ID"
// @Success 200 {object} response.Envelope
// @Router /cohorts/{id}/eligible-mentors [get]
func (h *CohortHandler) EligibleMentors(c *gin.Context) {
	mentors, hit, err := h.assignments.EligibleMentors(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, mentors, middleware.ExtractMeta(c))
}

// ExportRoster godoc
// @Summary Export the cohort roster
// @Tags Cohorts
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Cohort ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /cohorts/{id}/roster/export [get]
func (h *CohortHandler) ExportRoster(c *gin.Context) {
	file, err := h.exports.Roster(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
