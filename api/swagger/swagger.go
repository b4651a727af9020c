package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Cohort API", "description": "Programs, cohorts, mentors and students with a consistent mentor to cohort assignment workflow", "version": "1.0.0"},
    "basePath": "/",
    "schemes": ["http"],
    "tags": [
        {"name": "Programs", "description": "Course programs"},
        {"name": "Cohorts", "description": "Scheduled runs of a program"},
        {"name": "Mentors", "description": "Mentor roster and capacity"},
        {"name": "Students", "description": "Enrollment, progress and notes"},
        {"name": "Assignments", "description": "Mentor to cohort select and confirm workflow"},
        {"name": "Lifecycle", "description": "Status changes and deletion"},
        {"name": "System", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is unreachable"}}
            }
        },
        "/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProgramRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/programs/{id}": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get program",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Programs"],
                "summary": "Update program",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProgramRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Lifecycle"],
                "summary": "Delete program",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/programs/{id}/duplicate": {
            "post": {
                "tags": ["Programs"],
                "summary": "Duplicate program as a new draft",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/cohorts": {
            "get": {
                "tags": ["Cohorts"],
                "summary": "List cohorts",
                "parameters": [{"name": "program_id", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Cohorts"],
                "summary": "Create cohort",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCohortRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/cohorts/{id}": {
            "get": {
                "tags": ["Cohorts"],
                "summary": "Get cohort",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Cohorts"],
                "summary": "Update cohort schedule and capacity",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCohortRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Lifecycle"],
                "summary": "Delete cohort",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/cohorts/{id}/restore": {
            "post": {
                "tags": ["Cohorts"],
                "summary": "Restore an archived cohort",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/cohorts/{id}/students": {
            "get": {
                "tags": ["Cohorts"],
                "summary": "List the cohort roster",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "payment_status", "in": "query", "type": "string"}, {"name": "mentor_id", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/cohorts/{id}/eligible-mentors": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Mentors that could be assigned to the cohort",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/cohorts/{id}/roster/export": {
            "get": {
                "tags": ["Cohorts"],
                "summary": "Export the cohort roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}],
                "responses": {"200": {"description": "Roster file", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/mentors": {
            "get": {
                "tags": ["Mentors"],
                "summary": "List mentors",
                "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "availability", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Mentors"],
                "summary": "Create mentor",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMentorRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/mentors/{id}": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Get mentor",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Lifecycle"],
                "summary": "Delete mentor",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/mentors/{id}/capacity": {
            "put": {
                "tags": ["Mentors"],
                "summary": "Change how many cohorts the mentor may lead",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMentorCapacityRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/mentors/{id}/availability": {
            "put": {
                "tags": ["Mentors"],
                "summary": "Set mentor availability",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMentorAvailabilityRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/mentors/{id}/eligible-cohorts": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Cohorts the mentor could be assigned to",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [{"name": "cohort_id", "in": "query", "type": "string"}, {"name": "mentor_id", "in": "query", "type": "string"}, {"name": "status", "in": "query", "type": "string"}, {"name": "payment_status", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Enroll a student",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Lifecycle"],
                "summary": "Delete student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/students/{id}/transfer": {
            "put": {
                "tags": ["Students"],
                "summary": "Move a student to another cohort",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransferStudentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}/mentor": {
            "put": {
                "tags": ["Students"],
                "summary": "Set or clear the personal mentor",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignStudentMentorRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}/progress": {
            "put": {
                "tags": ["Students"],
                "summary": "Record course progress",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProgressRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}/payment": {
            "put": {
                "tags": ["Students"],
                "summary": "Set payment status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePaymentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}/activity": {
            "post": {
                "tags": ["Students"],
                "summary": "Mark the student as active now",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/students/{id}/notes": {
            "get": {
                "tags": ["Students"],
                "summary": "List notes",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Append a note",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AppendNoteRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/{entityType}/{id}/status": {
            "put": {
                "tags": ["Lifecycle"],
                "summary": "Change the status of a program, cohort, mentor or student",
                "parameters": [{"name": "entityType", "in": "path", "required": true, "type": "string", "enum": ["programs", "cohorts", "mentors", "students"]}, {"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "If-Match", "in": "header", "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/lifecycle/{entityType}": {
            "get": {
                "tags": ["Lifecycle"],
                "summary": "XState description of an entity state machine",
                "parameters": [{"name": "entityType", "in": "path", "required": true, "type": "string", "enum": ["program", "cohort", "mentor", "student"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/assignments/select": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Preview an assignment without writing",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/assignments/confirm": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign a mentor to a cohort",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/assignments/bulk": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign a mentor to several cohorts, all or nothing",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkAssignmentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/assignments/remove": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Remove a mentor from a cohort",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Guard rejection or stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "CreateProgramRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "syllabus_ref": {"type": "string"}, "status": {"type": "string", "enum": ["draft", "active"]}}, "required": ["name"]},
        "UpdateProgramRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "syllabus_ref": {"type": "string"}, "version": {"type": "integer", "format": "int64"}}, "required": ["name"]},
        "CreateCohortRequest": {"type": "object", "properties": {"program_id": {"type": "string"}, "name": {"type": "string"}, "status": {"type": "string", "enum": ["upcoming", "active"]}, "capacity": {"type": "integer"}, "start_date": {"type": "string", "format": "date-time"}, "end_date": {"type": "string", "format": "date-time"}, "enrollment_deadline": {"type": "string", "format": "date-time"}}, "required": ["program_id", "name", "capacity", "start_date", "end_date"]},
        "UpdateCohortRequest": {"type": "object", "properties": {"name": {"type": "string"}, "capacity": {"type": "integer"}, "start_date": {"type": "string", "format": "date-time"}, "end_date": {"type": "string", "format": "date-time"}, "enrollment_deadline": {"type": "string", "format": "date-time"}, "version": {"type": "integer", "format": "int64"}}, "required": ["name", "capacity", "start_date", "end_date"]},
        "CreateMentorRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "max_cohorts": {"type": "integer"}, "availability": {"type": "string", "enum": ["available", "limited", "unavailable"]}}, "required": ["name", "email"]},
        "UpdateMentorCapacityRequest": {"type": "object", "properties": {"max_cohorts": {"type": "integer"}, "version": {"type": "integer", "format": "int64"}}, "required": ["max_cohorts"]},
        "UpdateMentorAvailabilityRequest": {"type": "object", "properties": {"availability": {"type": "string", "enum": ["available", "limited", "unavailable"]}, "version": {"type": "integer", "format": "int64"}}, "required": ["availability"]},
        "CreateStudentRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "cohort_id": {"type": "string"}, "mentor_id": {"type": "string"}, "payment_status": {"type": "string", "enum": ["paid", "pending", "overdue", "refunded"]}}, "required": ["name", "email", "cohort_id"]},
        "TransferStudentRequest": {"type": "object", "properties": {"cohort_id": {"type": "string"}, "version": {"type": "integer", "format": "int64"}}, "required": ["cohort_id"]},
        "AssignStudentMentorRequest": {"type": "object", "properties": {"mentor_id": {"type": "string"}, "version": {"type": "integer", "format": "int64"}}},
        "UpdateProgressRequest": {"type": "object", "properties": {"progress": {"type": "integer"}, "version": {"type": "integer", "format": "int64"}}, "required": ["progress"]},
        "UpdatePaymentRequest": {"type": "object", "properties": {"payment_status": {"type": "string", "enum": ["paid", "pending", "overdue", "refunded"]}, "version": {"type": "integer", "format": "int64"}}, "required": ["payment_status"]},
        "AppendNoteRequest": {"type": "object", "properties": {"author": {"type": "string"}, "content": {"type": "string"}}, "required": ["author", "content"]},
        "StatusChangeRequest": {"type": "object", "properties": {"status": {"type": "string"}, "reason": {"type": "string"}, "version": {"type": "integer", "format": "int64"}}, "required": ["status"]},
        "AssignmentRequest": {"type": "object", "properties": {"mentor_id": {"type": "string"}, "cohort_id": {"type": "string"}}, "required": ["mentor_id", "cohort_id"]},
        "BulkAssignmentRequest": {"type": "object", "properties": {"mentor_id": {"type": "string"}, "cohort_ids": {"type": "array", "items": {"type": "string"}}}, "required": ["mentor_id", "cohort_ids"]},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "kind": {"type": "string", "enum": ["VALIDATION", "GUARD", "CONSISTENCY", "NOT_FOUND", "CONFLICT", "INTERNAL"]}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
