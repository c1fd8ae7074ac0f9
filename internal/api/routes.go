package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/begriplab/definitie-validator/internal/api/middleware"
	"github.com/begriplab/definitie-validator/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/validate").
			To(handler.Validate).
			Doc("Validate a definition text for a term").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(ValidateRequest{}).
			Writes(models.ValidationResult{}).
			Returns(200, "OK", models.ValidationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/definition").
			To(handler.ValidateDefinition).
			Doc("Validate a complete definition object").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(models.Definition{}).
			Writes(models.ValidationResult{}).
			Returns(200, "OK", models.ValidationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/batch").
			To(handler.ValidateBatch).
			Doc("Validate multiple definitions with bounded concurrency").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(BatchRequest{}).
			Writes([]models.ValidationResult{}).
			Returns(200, "OK", []models.ValidationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/generate").
			To(handler.Generate).
			Doc("Generate a candidate definition and validate it").
			Metadata(restfulspec.KeyOpenAPITags, []string{"generate"}).
			Reads(GenerateRequest{}).
			Writes(GenerateResponse{}).
			Returns(200, "OK", GenerateResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(501, "Not Implemented", middleware.ErrorResponse{}).
			Returns(502, "Bad Gateway", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/rules").
			To(handler.Rules).
			Doc("List the active rule set").
			Metadata(restfulspec.KeyOpenAPITags, []string{"rules"}).
			Writes(RulesResponse{}).
			Returns(200, "OK", RulesResponse{}).
			Returns(503, "Service Unavailable", middleware.ErrorResponse{}))

	container.Add(ws)
}
