package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Generates weekly session timetables for scheduling periods",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Scheduler", "description": "Timetable generation, inspection and export"}
    ],
    "paths": {
        "/scheduling-periods/{id}/generate": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate the sessions of a scheduling period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Scheduling period not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already generated or generation in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Archived period or no courses", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Requested load exceeds weekly capacity", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling-periods/{id}/generate/async": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Queue generation of a scheduling period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Queue full or rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling-jobs/{jobId}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Get an asynchronous generation job",
                "parameters": [
                    {"name": "jobId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GenerationJob"}},
                    "404": {"description": "Unknown or expired job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling-periods/{id}/sessions": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List generated sessions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Scheduler"],
                "summary": "Remove generated sessions and return the period to draft",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Reset", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Archived period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scheduling-periods/{id}/export": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Download the timetable",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "404": {"description": "Nothing generated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["sessionsPerWeek", "maxDailySessions"],
            "properties": {
                "sessionsPerWeek": {"type": "integer", "minimum": 1, "maximum": 40},
                "preferMorning": {"type": "boolean"},
                "avoidConsecutiveSessions": {"type": "boolean"},
                "maxDailySessions": {"type": "integer", "minimum": 1, "maximum": 24},
                "minClassroomCapacity": {"type": "integer", "minimum": 0},
                "enforceDailyCap": {"type": "boolean"}
            }
        },
        "CourseFulfillment": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "requested": {"type": "integer"},
                "placed": {"type": "integer"},
                "shortfall": {"type": "integer"}
            }
        },
        "GenerateScheduleResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "sessionsCount": {"type": "integer"},
                "totalWeeks": {"type": "integer"},
                "fulfillment": {"type": "array", "items": {"$ref": "#/definitions/CourseFulfillment"}}
            }
        },
        "GenerationJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "schedulingPeriodId": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "running", "succeeded", "failed"]},
                "request": {"$ref": "#/definitions/GenerateScheduleRequest"},
                "result": {"$ref": "#/definitions/GenerateScheduleResponse"},
                "error": {"type": "string"},
                "enqueuedAt": {"type": "string"},
                "finishedAt": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
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
