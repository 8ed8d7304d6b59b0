// Package docs registra en swag el documento OpenAPI que sirve /swagger/doc.json.
// Se mantiene a mano junto con las anotaciones @Router de los handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/camera": {
            "get": {
                "produces": ["application/json"],
                "tags": ["camera"],
                "summary": "Estado de la sesión de cámara",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/capture.sessionResponse"}}
                }
            }
        },
        "/camera/activate": {
            "post": {
                "description": "Requiere permisos de cámara y galería. Si falta alguno, la sesión queda en idle y se informa cuál.",
                "produces": ["application/json"],
                "tags": ["camera"],
                "summary": "Activar la cámara",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/capture.sessionResponse"}},
                    "403": {"description": "permiso denegado", "schema": {"$ref": "#/definitions/failures.Body"}},
                    "409": {"description": "operación en curso", "schema": {"$ref": "#/definitions/failures.Body"}}
                }
            }
        },
        "/camera/capture": {
            "post": {
                "produces": ["application/json"],
                "tags": ["camera"],
                "summary": "Tomar foto",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/capture.artifactResponse"}},
                    "409": {"description": "estado inválido / cancelada", "schema": {"$ref": "#/definitions/failures.Body"}},
                    "503": {"description": "hardware no disponible", "schema": {"$ref": "#/definitions/failures.Body"}}
                }
            }
        },
        "/camera/confirm": {
            "post": {
                "description": "Guarda en la galería (best-effort) y agrega la foto a Inicio. Una falla de galería se informa como partial_failure.",
                "produces": ["application/json"],
                "tags": ["camera"],
                "summary": "Confirmar la vista previa",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/capture.confirmResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/failures.Body"}}
                }
            }
        },
        "/scanner/start": {
            "post": {
                "description": "Pide el permiso de cámara si hace falta; sólo entra en scanning si se concede.",
                "produces": ["application/json"],
                "tags": ["scanner"],
                "summary": "Iniciar escáner",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scan.scannerResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/failures.Body"}}
                }
            }
        },
        "/scanner/events": {
            "post": {
                "description": "El shell reenvía cada frame con código. Durante el bloqueo los eventos se descartan (accepted=false).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scanner"],
                "summary": "Reportar un código detectado",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true},
                    {"description": "Evento del reconocedor", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/scan.recognitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/scan.recognitionResponse"}}
                }
            }
        },
        "/calendar/events": {
            "get": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Próximos eventos",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/schedule.eventResponse"}}}
                }
            },
            "post": {
                "description": "Valida antes de pedir permiso. El evento dura 90 minutos.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Agendar evento",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true},
                    {"description": "Formulario", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/schedule.scheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/schedule.scheduledResponse"}},
                    "400": {"description": "missing_title / invalid_date_time", "schema": {"$ref": "#/definitions/schedule.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/schedule.errorResponse"}},
                    "502": {"description": "no_writable_calendar / inserción fallida", "schema": {"$ref": "#/definitions/schedule.errorResponse"}}
                }
            }
        },
        "/comms/call": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comms"],
                "summary": "Llamar",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true},
                    {"description": "Número", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/comms.contactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/comms.linkResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/failures.Body"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/comms.linkResponse"}}
                }
            }
        },
        "/comms/whatsapp": {
            "post": {
                "description": "Intenta whatsapp:// y, si no se puede abrir, una vez https://wa.me.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comms"],
                "summary": "Abrir WhatsApp",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true},
                    {"description": "Número y mensaje", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/comms.contactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/comms.linkResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/comms.linkResponse"}}
                }
            }
        },
        "/home": {
            "get": {
                "description": "Fotos (más reciente primero) y hasta 3 próximos eventos. refresh=true vuelve a consultar el calendario.",
                "produces": ["application/json"],
                "tags": ["home"],
                "summary": "Pantalla de inicio",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true},
                    {"type": "boolean", "description": "Refrescar eventos", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/home.overviewResponse"}}
                }
            }
        },
        "/permissions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["permissions"],
                "summary": "Estado cacheado de permisos",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/permissions.permissionResponse"}}}
                }
            }
        },
        "/permissions/{capability}/ensure": {
            "post": {
                "description": "Si ya está concedido no abre diálogo. Si no, pide una sola vez.",
                "produces": ["application/json"],
                "tags": ["permissions"],
                "summary": "Chequear o pedir un permiso",
                "parameters": [
                    {"type": "string", "description": "ID del dispositivo", "name": "X-Device-ID", "in": "header", "required": true},
                    {"type": "string", "description": "camera | media_library | calendar | scanner", "name": "capability", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/permissions.permissionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/failures.Body"}}
                }
            }
        }
    },
    "definitions": {
        "failures.Body": {
            "type": "object",
            "properties": {
                "capability": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "capture.artifactResponse": {
            "type": "object",
            "properties": {
                "captured_at": {"type": "string"},
                "id": {"type": "string"},
                "uri": {"type": "string"}
            }
        },
        "capture.handoffResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "reason": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "capture.sessionResponse": {
            "type": "object",
            "properties": {
                "last_error": {"$ref": "#/definitions/failures.Body"},
                "last_gallery": {"$ref": "#/definitions/capture.handoffResponse"},
                "pending": {"type": "string"},
                "preview": {"$ref": "#/definitions/capture.artifactResponse"},
                "state": {"type": "string"}
            }
        },
        "capture.confirmResponse": {
            "type": "object",
            "properties": {
                "gallery": {"$ref": "#/definitions/capture.handoffResponse"},
                "photo": {"$ref": "#/definitions/capture.artifactResponse"}
            }
        },
        "scan.recognitionRequest": {
            "type": "object",
            "properties": {
                "code_type": {"type": "string"},
                "payload": {"type": "string"}
            }
        },
        "scan.resultResponse": {
            "type": "object",
            "properties": {
                "code_type": {"type": "string"},
                "kind": {"type": "string"},
                "payload": {"type": "string"},
                "scanned_at": {"type": "string"}
            }
        },
        "scan.linkResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "opened_url": {"type": "string"},
                "reason": {"type": "string"},
                "status": {"type": "string"},
                "used_fallback": {"type": "boolean"}
            }
        },
        "scan.recognitionResponse": {
            "type": "object",
            "properties": {
                "accepted": {"type": "boolean"},
                "link": {"$ref": "#/definitions/scan.linkResponse"},
                "result": {"$ref": "#/definitions/scan.resultResponse"}
            }
        },
        "scan.scannerResponse": {
            "type": "object",
            "properties": {
                "last_link": {"$ref": "#/definitions/scan.linkResponse"},
                "last_result": {"$ref": "#/definitions/scan.resultResponse"},
                "locked_until": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "schedule.scheduleRequest": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "start": {"type": "string", "example": "2024-03-10 10:00"},
                "title": {"type": "string"}
            }
        },
        "schedule.requestResponse": {
            "type": "object",
            "properties": {
                "calendar_id": {"type": "string"},
                "end": {"type": "string"},
                "location": {"type": "string"},
                "start": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "schedule.scheduledResponse": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "request": {"$ref": "#/definitions/schedule.requestResponse"}
            }
        },
        "schedule.eventResponse": {
            "type": "object",
            "properties": {
                "calendar_id": {"type": "string"},
                "end": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "start": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "schedule.errorResponse": {
            "type": "object",
            "properties": {
                "capability": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "comms.contactRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "number": {"type": "string"}
            }
        },
        "comms.linkResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/failures.Body"},
                "opened_url": {"type": "string"},
                "reason": {"type": "string"},
                "status": {"type": "string"},
                "used_fallback": {"type": "boolean"}
            }
        },
        "home.photoResponse": {
            "type": "object",
            "properties": {
                "captured_at": {"type": "string"},
                "id": {"type": "string"},
                "uri": {"type": "string"}
            }
        },
        "home.upcomingResponse": {
            "type": "object",
            "properties": {
                "end": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "start": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "home.overviewResponse": {
            "type": "object",
            "properties": {
                "photos": {"type": "array", "items": {"$ref": "#/definitions/home.photoResponse"}},
                "upcoming": {"type": "array", "items": {"$ref": "#/definitions/home.upcomingResponse"}}
            }
        },
        "permissions.permissionResponse": {
            "type": "object",
            "properties": {
                "capability": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mappo Toolkit API",
	Description:      "Cámara, escáner, calendario y comunicaciones detrás de permisos por dispositivo.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
