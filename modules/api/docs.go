package api

import "github.com/gofiber/fiber/v2"

// apiVersion is reported in the OpenAPI document.
const apiVersion = "1.0.0"

// Docs handles GET /docs.json, serving the OpenAPI 3.0 document for the
// task routes.
func (h *Handlers) Docs(c *fiber.Ctx) error {
	return c.JSON(openapiDocument)
}

var taskSchema = fiber.Map{
	"type":     "object",
	"required": []string{"id", "title", "description", "status", "completed", "createdAt", "updatedAt"},
	"properties": fiber.Map{
		"id":          fiber.Map{"type": "string", "format": "uuid"},
		"title":       fiber.Map{"type": "string", "minLength": 1, "maxLength": 500},
		"description": fiber.Map{"type": "string", "minLength": 1},
		"status":      fiber.Map{"type": "string", "enum": []string{"pending", "active", "completed"}},
		"completed":   fiber.Map{"type": "boolean"},
		"createdAt":   fiber.Map{"type": "string", "format": "date-time"},
		"updatedAt":   fiber.Map{"type": "string", "format": "date-time"},
	},
}

var errorSchema = fiber.Map{
	"type": "object",
	"properties": fiber.Map{
		"error":   fiber.Map{"type": "string"},
		"message": fiber.Map{"type": "string"},
	},
}

var idParam = fiber.Map{
	"name":     "id",
	"in":       "path",
	"required": true,
	"schema":   fiber.Map{"type": "string"},
}

func jsonContent(schema fiber.Map) fiber.Map {
	return fiber.Map{"content": fiber.Map{"application/json": fiber.Map{"schema": schema}}}
}

func errorResponse(description string) fiber.Map {
	r := jsonContent(errorSchema)
	r["description"] = description
	return r
}

func taskResponse(description string, schema fiber.Map) fiber.Map {
	r := jsonContent(schema)
	r["description"] = description
	return r
}

var openapiDocument = fiber.Map{
	"openapi": "3.0.0",
	"info": fiber.Map{
		"title":       "Todo API",
		"description": "A simple todo API",
		"version":     apiVersion,
	},
	"paths": fiber.Map{
		"/v1/tasks": fiber.Map{
			"post": fiber.Map{
				"tags":        []string{"tasks"},
				"requestBody": jsonContent(taskCreateBodySchema),
				"responses": fiber.Map{
					"201": taskResponse("Created task", taskSchema),
					"400": errorResponse("Validation failure"),
					"409": errorResponse("Task already exists"),
					"429": errorResponse("Rate limit exceeded"),
					"500": errorResponse("Internal error"),
				},
			},
			"get": fiber.Map{
				"tags": []string{"tasks"},
				"responses": fiber.Map{
					"200": taskResponse("All tasks", fiber.Map{"type": "array", "items": taskSchema}),
					"429": errorResponse("Rate limit exceeded"),
					"500": errorResponse("Internal error"),
				},
			},
		},
		"/v1/tasks/{id}": fiber.Map{
			"get": fiber.Map{
				"tags":       []string{"tasks"},
				"parameters": []fiber.Map{idParam},
				"responses": fiber.Map{
					"200": taskResponse("The task", taskSchema),
					"404": errorResponse("Task not found"),
					"429": errorResponse("Rate limit exceeded"),
					"500": errorResponse("Internal error"),
				},
			},
			"patch": fiber.Map{
				"tags":        []string{"tasks"},
				"parameters":  []fiber.Map{idParam},
				"requestBody": jsonContent(taskPatchBodySchema),
				"responses": fiber.Map{
					"200": taskResponse("Updated task", taskSchema),
					"400": errorResponse("Validation failure"),
					"404": errorResponse("Task not found"),
					"409": errorResponse("Task already exists"),
					"429": errorResponse("Rate limit exceeded"),
					"500": errorResponse("Internal error"),
				},
			},
			"delete": fiber.Map{
				"tags":       []string{"tasks"},
				"parameters": []fiber.Map{idParam},
				"responses": fiber.Map{
					"204": fiber.Map{"description": "Task deleted"},
					"404": errorResponse("Task not found"),
					"429": errorResponse("Rate limit exceeded"),
					"500": errorResponse("Internal error"),
				},
			},
		},
	},
}

var taskCreateBodySchema = fiber.Map{
	"type":     "object",
	"required": []string{"title", "description", "status", "completed"},
	"properties": fiber.Map{
		"title":       fiber.Map{"type": "string", "minLength": 1, "maxLength": 500},
		"description": fiber.Map{"type": "string", "minLength": 1},
		"status":      fiber.Map{"type": "string", "enum": []string{"pending", "active", "completed"}},
		"completed":   fiber.Map{"type": "boolean"},
	},
}

var taskPatchBodySchema = fiber.Map{
	"type": "object",
	"properties": fiber.Map{
		"title":       fiber.Map{"type": "string", "minLength": 1, "maxLength": 500},
		"description": fiber.Map{"type": "string", "minLength": 1},
		"status":      fiber.Map{"type": "string", "enum": []string{"pending", "active", "completed"}},
		"completed":   fiber.Map{"type": "boolean"},
	},
}
