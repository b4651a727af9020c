package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cohort-api/internal/middleware"
	"github.com/noah-isme/cohort-api/internal/models"
	"github.com/noah-isme/cohort-api/internal/service"
	"github.com/noah-isme/cohort-api/pkg/response"
)

// StudentHandler exposes enrollment, progress and note endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param cohort_id query string false "Cohort ID"
// @Param mentor_id query string false "Personal mentor"
// @Param status query string false "Student status"
// @Param payment_status query string false "Payment status"
// @Param search query string false "Name or email contains"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	status, ok := enumQuery(c, "status", models.ParseStudentStatus)
	if !ok {
		return
	}
	payment, ok := enumQuery(c, "payment_status", models.ParsePaymentStatus)
	if !ok {
		return
	}
	filter := models.StudentFilter{
		CohortID:      c.Query("cohort_id"),
		MentorID:      c.Query("mentor_id"),
		Status:        status,
		PaymentStatus: payment,
		Search:        c.Query("search"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	students, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, student.Version, student)
}

// Create godoc
// @Summary Enroll a student
// @Description In soft capacity mode an over-capacity enrollment succeeds with meta.capacity_warning set.
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "COHORT_AT_CAPACITY or COHORT_NOT_ENROLLABLE"
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, warning, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCapacityWarning(c, warning)
	response.Created(c, student, middleware.ExtractMeta(c))
}

// Transfer godoc
// @Summary Move a student to another cohort
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.TransferStudentRequest true "Transfer payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transfer [put]
func (h *StudentHandler) Transfer(c *gin.Context) {
	var req service.TransferStudentRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	student, warning, err := h.service.Transfer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCapacityWarning(c, warning)
	response.Versioned(c, student.Version, student, middleware.ExtractMeta(c))
}

// AssignMentor godoc
// @Summary Set or clear the student's personal mentor
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.AssignStudentMentorRequest true "A null mentor_id clears the mentor"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "MENTOR_NOT_IN_COHORT"
// @Router /students/{id}/mentor [put]
func (h *StudentHandler) AssignMentor(c *gin.Context) {
	var req service.AssignStudentMentorRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	student, err := h.service.AssignMentor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, student.Version, student)
}

// UpdateProgress godoc
// @Summary Record course progress
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdateProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [put]
func (h *StudentHandler) UpdateProgress(c *gin.Context) {
	var req service.UpdateProgressRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	student, err := h.service.UpdateProgress(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, student.Version, student)
}

// UpdatePayment godoc
// @Summary Set payment status
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdatePaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/payment [put]
func (h *StudentHandler) UpdatePayment(c *gin.Context) {
	var req service.UpdatePaymentRequest
	if !bindJSON(c, &req) || !ifMatch(c, &req.Version) {
		return
	}
	student, err := h.service.UpdatePayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, student.Version, student)
}

// RecordActivity godoc
// @Summary Mark the student as active now
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/activity [post]
func (h *StudentHandler) RecordActivity(c *gin.Context) {
	student, err := h.service.RecordActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Versioned(c, student.Version, student)
}

// ListNotes returns the student's notes, oldest first.
func (h *StudentHandler) ListNotes(c *gin.Context) {
	notes, err := h.service.ListNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, notes)
}

// AppendNote godoc
// @Summary Append a note
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.AppendNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/notes [post]
func (h *StudentHandler) AppendNote(c *gin.Context) {
	var req service.AppendNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.service.AppendNote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}
