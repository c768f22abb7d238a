package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

// SchemaUseCase projects full property templates into the compact schema
// the annotation editor consumes ("short resource template").
//
// A misconfigured template is rejected whole: Project returns a nil schema
// and logs why. The one exception is a stale custom vocabulary, which only
// degrades its own field to free text.
type SchemaUseCase struct {
	templates repository.TemplateRepository
	props     repository.PropertyRepository
	cache     repository.CacheRepository
	ttl       time.Duration
	logger    *zap.Logger
}

func NewSchemaUseCase(
	templates repository.TemplateRepository,
	props repository.PropertyRepository,
	cache repository.CacheRepository,
	schemaCacheTTL time.Duration,
	logger *zap.Logger,
) *SchemaUseCase {
	return &SchemaUseCase{
		templates: templates,
		props:     props,
		cache:     cache,
		ttl:       schemaCacheTTL,
		logger:    logger,
	}
}

// Project builds the short schema for one template. Returns (nil, nil)
// when the template is misconfigured; the caller decides how fatal that is.
func (uc *SchemaUseCase) Project(ctx context.Context, templateID int64) (*domain.ShortTemplateSchema, error) {
	if cached := uc.cachedSchema(ctx, templateID); cached != nil {
		return cached, nil
	}

	template, err := uc.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	schema := &domain.ShortTemplateSchema{
		TemplateID: template.ID,
		Label:      template.Label,
		Properties: make([]domain.SchemaProperty, 0, len(template.Properties)),
	}

	seen := make(map[string]domain.UIType)
	for _, tp := range template.Properties {
		uiType := domain.UITypeOf(tp.DataType)

		// The oa:hasBody property is the one and only resource link; any
		// other arrangement makes the body mapping ambiguous.
		if uiType == domain.UIResource && tp.Term != domain.TermHasBody {
			uc.logger.Warn("Template rejected: resource link on a non-body property",
				zap.Int64("template_id", templateID),
				zap.String("term", tp.Term),
			)
			return nil, nil
		}
		if tp.Term == domain.TermHasBody && uiType != domain.UIResource {
			uc.logger.Warn("Template rejected: body property is not a resource link",
				zap.Int64("template_id", templateID),
				zap.String("data_type", tp.DataType),
			)
			return nil, nil
		}
		if tp.DataType == domain.DataTypeResourceItemSet || tp.DataType == domain.DataTypeResourceMedia {
			uc.logger.Warn("Template rejected: unsupported resource link kind",
				zap.Int64("template_id", templateID),
				zap.String("data_type", tp.DataType),
			)
			return nil, nil
		}

		prop := domain.SchemaProperty{
			Term:     tp.Term,
			Label:    tp.Label,
			Comment:  tp.Comment,
			Type:     uiType,
			Required: tp.Required,
		}

		switch uiType {
		case domain.UISelect:
			terms, ok := uc.vocabTerms(ctx, templateID, tp)
			if !ok {
				// Degrade this field only; the template stays usable.
				prop.Type = domain.UITextarea
			} else {
				prop.ValueOptions = terms
			}
		case domain.UIValueSuggest:
			prop.SuggestService = tp.DataType
		}

		// Conflicts are judged on the form type the client will see, after
		// any vocab degrade. A stale customvocab field degraded to textarea
		// therefore coexists with a literal one: both render the same.
		if prior, ok := seen[tp.Term]; ok && prior != prop.Type {
			uc.logger.Warn("Template rejected: term mapped to two form types",
				zap.Int64("template_id", templateID),
				zap.String("term", tp.Term),
				zap.String("first", string(prior)),
				zap.String("second", string(prop.Type)),
			)
			return nil, nil
		}
		seen[tp.Term] = prop.Type

		schema.Properties = append(schema.Properties, prop)
	}

	uc.storeSchema(ctx, schema)
	return schema, nil
}

// ListByIDs projects every configured template, skipping rejected ones.
func (uc *SchemaUseCase) ListByIDs(ctx context.Context, ids []int64) ([]*domain.ShortTemplateSchema, error) {
	schemas := make([]*domain.ShortTemplateSchema, 0, len(ids))
	for _, id := range ids {
		schema, err := uc.Project(ctx, id)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok && appErr.StatusCode == 404 {
				uc.logger.Warn("Configured template does not exist", zap.Int64("template_id", id))
				continue
			}
			return nil, err
		}
		if schema == nil {
			continue
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

func (uc *SchemaUseCase) vocabTerms(ctx context.Context, templateID int64, tp domain.TemplateProperty) ([]string, bool) {
	ref := domain.CustomVocabRef(tp.DataType)
	vocab, err := uc.props.GetCustomVocab(ctx, ref)
	if err != nil || vocab == nil || len(vocab.Terms) == 0 {
		uc.logger.Warn("Custom vocabulary missing or empty, field degraded to text",
			zap.Int64("template_id", templateID),
			zap.String("term", tp.Term),
			zap.String("vocab", ref),
		)
		return nil, false
	}
	return vocab.Terms, true
}

func (uc *SchemaUseCase) cachedSchema(ctx context.Context, templateID int64) *domain.ShortTemplateSchema {
	if uc.cache == nil {
		return nil
	}
	data, err := uc.cache.Get(ctx, schemaCacheKey(templateID))
	if err != nil || data == nil {
		return nil
	}
	var schema domain.ShortTemplateSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		uc.logger.Warn("Failed to unmarshal cached schema", zap.Int64("template_id", templateID), zap.Error(err))
		return nil
	}
	return &schema
}

func (uc *SchemaUseCase) storeSchema(ctx context.Context, schema *domain.ShortTemplateSchema) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, schemaCacheKey(schema.TemplateID), data, uc.ttl); err != nil {
		uc.logger.Debug("Failed to cache schema", zap.Int64("template_id", schema.TemplateID), zap.Error(err))
	}
}

func schemaCacheKey(templateID int64) string {
	return fmt.Sprintf("schema:%d", templateID)
}
