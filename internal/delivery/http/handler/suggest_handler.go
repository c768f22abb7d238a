package handler

import (
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/annotation-microservice/internal/pkg/utils"
	"github.com/annotation-microservice/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SuggestHandler proxies autocomplete lookups for valuesuggest properties.
type SuggestHandler struct {
	suggest repository.SuggestRepository
	logger  *zap.Logger
}

func NewSuggestHandler(suggest repository.SuggestRepository, logger *zap.Logger) *SuggestHandler {
	return &SuggestHandler{
		suggest: suggest,
		logger:  logger,
	}
}

// Suggest godoc
// @Summary Autocomplete values for a valuesuggest property
// @Description Proxies the query to the external suggest service named by the property's data type.
// @Tags Suggest
// @Produce json
// @Param service query string true "Suggest service identifier"
// @Param q query string true "Query prefix"
// @Success 200 {object} utils.SuccessResponse{data=dto.SuggestResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/suggest [get]
func (h *SuggestHandler) Suggest(c *fiber.Ctx) error {
	service := c.Query("service")
	query := c.Query("q")
	if service == "" {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("service is required"))
	}

	hits, err := h.suggest.Suggest(c.Context(), service, query)
	if err != nil {
		h.logger.Warn("Suggest lookup failed",
			zap.String("service", service),
			zap.Error(err))
		return utils.SendError(c, errors.ErrSuggestUnavailable)
	}

	resp := dto.SuggestResponse{Suggestions: make([]dto.Suggestion, 0, len(hits))}
	for _, hit := range hits {
		resp.Suggestions = append(resp.Suggestions, dto.Suggestion{
			Value: hit.Value,
			URI:   hit.URI,
			Info:  hit.Info,
		})
	}

	return utils.SendSuccess(c, resp, &utils.Meta{
		Total: len(resp.Suggestions),
	})
}
