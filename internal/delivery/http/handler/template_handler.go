package handler

import (
	"github.com/annotation-microservice/internal/pkg/utils"
	"github.com/annotation-microservice/internal/pkg/validator"
	"github.com/annotation-microservice/internal/usecase"
	"github.com/annotation-microservice/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TemplateHandler serves the short schema listings used by the
// annotation editor.
type TemplateHandler struct {
	annotationUC *usecase.AnnotationUseCase
	logger       *zap.Logger
}

func NewTemplateHandler(annotationUC *usecase.AnnotationUseCase, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		annotationUC: annotationUC,
		logger:       logger,
	}
}

// GetResourceTemplates godoc
// @Summary List annotation templates for a context
// @Description Projects the templates configured for the given context (describe = media annotation, locate = map annotation) into short schemas. Misconfigured templates are silently omitted.
// @Tags Templates
// @Produce json
// @Param type query string true "Context type" Enums(describe, locate)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.ShortTemplateSchema}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/resource-templates [get]
func (h *TemplateHandler) GetResourceTemplates(c *fiber.Ctx) error {
	req := dto.TemplatesRequest{
		Type: c.Query("type"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	schemas, err := h.annotationUC.TemplatesForContext(c.Context(), req.Type)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, schemas, &utils.Meta{
		Total: len(schemas),
	})
}
