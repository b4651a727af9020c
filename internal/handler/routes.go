package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every API handler for route registration.
type Handlers struct {
	Programs    *ProgramHandler
	Cohorts     *CohortHandler
	Mentors     *MentorHandler
	Students    *StudentHandler
	Assignments *AssignmentHandler
	Lifecycle   *LifecycleHandler
}

// entityTypes are the collections sharing the status and delete endpoints.
var entityTypes = []string{"programs", "cohorts", "mentors", "students"}

// RegisterRoutes mounts the API on api.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	programs := api.Group("/programs")
	programs.GET("", h.Programs.List)
	programs.POST("", h.Programs.Create)
	programs.GET("/:id", h.Programs.Get)
	programs.PUT("/:id", h.Programs.Update)
	programs.POST("/:id/duplicate", h.Programs.Duplicate)

	cohorts := api.Group("/cohorts")
	cohorts.GET("", h.Cohorts.List)
	cohorts.POST("", h.Cohorts.Create)
	cohorts.GET("/:id", h.Cohorts.Get)
	cohorts.PUT("/:id", h.Cohorts.Update)
	cohorts.POST("/:id/restore", h.Cohorts.Restore)
	cohorts.GET("/:id/students", h.Cohorts.Students)
	cohorts.GET("/:id/eligible-mentors", h.Cohorts.EligibleMentors)
	cohorts.GET("/:id/roster/export", h.Cohorts.ExportRoster)

	mentors := api.Group("/mentors")
	mentors.GET("", h.Mentors.List)
	mentors.POST("", h.Mentors.Create)
	mentors.GET("/:id", h.Mentors.Get)
	mentors.PUT("/:id/capacity", h.Mentors.UpdateCapacity)
	mentors.PUT("/:id/availability", h.Mentors.UpdateAvailability)
	mentors.GET("/:id/eligible-cohorts", h.Mentors.EligibleCohorts)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id/transfer", h.Students.Transfer)
	students.PUT("/:id/mentor", h.Students.AssignMentor)
	students.PUT("/:id/progress", h.Students.UpdateProgress)
	students.PUT("/:id/payment", h.Students.UpdatePayment)
	students.POST("/:id/activity", h.Students.RecordActivity)
	students.GET("/:id/notes", h.Students.ListNotes)
	students.POST("/:id/notes", h.Students.AppendNote)

	// Static collection names stand in for :entityType so they do not clash
	// with the per-collection routes above.
	for _, entity := range entityTypes {
		group := api.Group("/"+entity, withEntityType(entity))
		group.PUT("/:id/status", h.Lifecycle.UpdateStatus)
		group.DELETE("/:id", h.Lifecycle.Delete)
	}
	api.GET("/lifecycle/:entityType", h.Lifecycle.Describe)

	assignments := api.Group("/assignments")
	assignments.POST("/select", h.Assignments.Select)
	assignments.POST("/confirm", h.Assignments.Confirm)
	assignments.POST("/bulk", h.Assignments.Bulk)
	assignments.POST("/remove", h.Assignments.Remove)
}

// RegisterSystemRoutes mounts health, readiness and, when enabled, metrics.
func RegisterSystemRoutes(r gin.IRouter, h *SystemHandler, metricsEnabled bool) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	if metricsEnabled {
		r.GET("/metrics", h.Prometheus)
	}
}

func withEntityType(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AddParam("entityType", entity)
		c.Next()
	}
}
