package handler

import (
	"strconv"

	"github.com/annotation-microservice/internal/delivery/http/middleware"
	"github.com/annotation-microservice/internal/pkg/utils"
	"github.com/annotation-microservice/internal/pkg/validator"
	"github.com/annotation-microservice/internal/usecase"
	"github.com/annotation-microservice/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnnotationHandler serves the annotation lifecycle endpoints.
type AnnotationHandler struct {
	annotationUC *usecase.AnnotationUseCase
	logger       *zap.Logger
}

func NewAnnotationHandler(annotationUC *usecase.AnnotationUseCase, logger *zap.Logger) *AnnotationHandler {
	return &AnnotationHandler{
		annotationUC: annotationUC,
		logger:       logger,
	}
}

// GetGeometries godoc
// @Summary List annotation geometries of a resource
// @Description Returns the simplified annotation views anchored to a resource. media_id is tri-state: omitted returns all annotations, 0 only those with no media association, a positive id only those on that media.
// @Tags Annotations
// @Produce json
// @Param resource_id query int true "Resource id"
// @Param media_id query int false "Media filter (0 = no media association)"
// @Param annotation_id query int false "Restrict to one annotation"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeometriesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/geometries [get]
func (h *AnnotationHandler) GetGeometries(c *fiber.Ctx) error {
	req := dto.GeometriesRequest{
		ResourceID:   int64(c.QueryInt("resource_id")),
		AnnotationID: int64(c.QueryInt("annotation_id")),
	}

	// The distinction between an absent media_id and media_id=0 is
	// load-bearing; QueryInt alone cannot express it.
	if raw := c.Query("media_id"); raw != "" {
		mediaID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || mediaID < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid media_id"})
		}
		req.MediaID = &mediaID
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.annotationUC.GetGeometries(c.Context(), middleware.ActorFromCtx(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Geometries),
	})
}

// Annotate godoc
// @Summary Create or replace an annotation
// @Description Creates an annotation when id is absent, otherwise rebuilds the whole target and body set from the submitted state.
// @Tags Annotations
// @Accept json
// @Produce json
// @Param request body dto.AnnotateRequest true "Annotation state"
// @Success 200 {object} utils.SuccessResponse{data=dto.AnnotateResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/annotate [post]
func (h *AnnotationHandler) Annotate(c *fiber.Ctx) error {
	var req dto.AnnotateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.annotationUC.Annotate(c.Context(), middleware.ActorFromCtx(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// DeleteAnnotation godoc
// @Summary Delete an annotation
// @Tags Annotations
// @Accept json
// @Produce json
// @Param request body dto.DeleteAnnotationRequest true "Annotation id"
// @Success 200 {object} utils.SuccessResponse{data=bool}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/delete-annotation [post]
func (h *AnnotationHandler) DeleteAnnotation(c *fiber.Ctx) error {
	var req dto.DeleteAnnotationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	if err := h.annotationUC.Delete(c.Context(), middleware.ActorFromCtx(c), req.ID); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, true, nil)
}

// Search godoc
// @Summary Spatial annotation search
// @Description Normalizes the submitted geo filter (point+radius, bounding box or WKT, single group or list) and returns the matching annotations. Invalid groups are dropped rather than rejected.
// @Tags Annotations
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Raw spatial filter"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/search [post]
func (h *AnnotationHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.annotationUC.Search(c.Context(), middleware.ActorFromCtx(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}
