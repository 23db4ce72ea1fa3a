package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Elearn Analytics API",
        "description": "Learning analytics and ranking engine",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and session management"},
        {"name": "Dashboard", "description": "Role specific dashboard views"},
        {"name": "Exports", "description": "Leaderboard exports"},
        {"name": "Metrics", "description": "Observability"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/api-v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api-v1/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Tokens rotated"},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/api-v1/dashboard/student": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Student dashboard",
                "responses": {
                    "200": {"description": "Dashboard payload"},
                    "412": {"description": "Student profile required"}
                }
            }
        },
        "/api-v1/dashboard/kids": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Simplified dashboard for younger learners",
                "responses": {
                    "200": {"description": "Dashboard payload"},
                    "412": {"description": "Student profile required"}
                }
            }
        },
        "/api-v1/dashboard/garden": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Progress garden dashboard",
                "responses": {
                    "200": {"description": "Dashboard payload"},
                    "412": {"description": "Student profile required"}
                }
            }
        },
        "/api-v1/dashboard/parent": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Parent dashboard with per-child summaries",
                "responses": {
                    "200": {"description": "Dashboard payload"},
                    "412": {"description": "Parent profile required"}
                }
            }
        },
        "/api-v1/dashboard/teacher": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Teacher dashboard with per-subject cohort overviews",
                "responses": {
                    "200": {"description": "Dashboard payload"},
                    "412": {"description": "Teacher profile required"}
                }
            }
        },
        "/api-v1/dashboard/admin": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Platform-wide admin dashboard",
                "responses": {
                    "200": {"description": "Dashboard payload"}
                }
            }
        },
        "/api-v1/exports/leaderboard": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a scope leaderboard as CSV or PDF",
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unknown scope or format"}
                }
            }
        },
        "/api-v1/exports/leaderboard/grades/{grade}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a grade-level leaderboard as CSV or PDF",
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unknown grade or format"}
                }
            }
        },
        "/api-v1/exports/students/{id}/progress": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a per-student progress report as CSV or PDF",
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Unknown student"}
                }
            }
        },
        "/api-v1/metrics/system": {
            "get": {
                "tags": ["Metrics"],
                "summary": "System analytics snapshot",
                "responses": {
                    "200": {"description": "Snapshot payload"}
                }
            }
        }
    },
    "definitions": {
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
