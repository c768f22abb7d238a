package usecase

import (
	"context"

	"github.com/annotation-microservice/internal/config"
	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/annotation-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// AnnotationUseCase owns the annotation lifecycle: composing incoming
// state into the fixed target/body model, projecting persisted records
// back into the flat client view, and the spatial search path.
type AnnotationUseCase struct {
	annotations repository.AnnotationRepository
	resources   repository.ResourceRepository
	schemas     *SchemaUseCase
	normalizer  *QueryNormalizer
	cfg         config.AnnotateConfig
	logger      *zap.Logger
}

func NewAnnotationUseCase(
	annotations repository.AnnotationRepository,
	resources repository.ResourceRepository,
	schemas *SchemaUseCase,
	normalizer *QueryNormalizer,
	cfg config.AnnotateConfig,
	logger *zap.Logger,
) *AnnotationUseCase {
	return &AnnotationUseCase{
		annotations: annotations,
		resources:   resources,
		schemas:     schemas,
		normalizer:  normalizer,
		cfg:         cfg,
		logger:      logger,
	}
}

// GetGeometries lists the annotations of a resource as simplified views,
// honoring the tri-state media filter. A positive annotationID narrows the
// listing to that single annotation.
func (uc *AnnotationUseCase) GetGeometries(
	ctx context.Context,
	actor domain.Actor,
	req dto.GeometriesRequest,
) (*dto.GeometriesResponse, error) {
	var anns []*domain.Annotation

	if req.AnnotationID > 0 {
		ann, err := uc.annotations.GetByID(ctx, req.AnnotationID)
		if err != nil {
			return nil, err
		}
		if ann.Target.ResourceID != req.ResourceID {
			return nil, errors.ErrAnnotationNotFound
		}
		anns = []*domain.Annotation{ann}
	} else {
		var err error
		anns, err = uc.annotations.ListByResource(ctx, req.ResourceID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]*domain.SimplifiedAnnotationView, 0, len(anns))
	for _, ann := range anns {
		view, ok := uc.Project(ctx, actor, ann, req.MediaID)
		if !ok {
			continue
		}
		views = append(views, view)
	}

	return &dto.GeometriesResponse{
		ResourceID: req.ResourceID,
		Geometries: views,
	}, nil
}

// Annotate creates a new annotation, or rebuilds target and bodies of an
// existing one from the submitted state. There is no partial update.
func (uc *AnnotationUseCase) Annotate(
	ctx context.Context,
	actor domain.Actor,
	req dto.AnnotateRequest,
) (*dto.AnnotateResponse, error) {
	if actor.Anonymous() {
		return nil, errors.ErrUnauthenticated
	}

	var existing *domain.Annotation
	if req.ID > 0 {
		var err error
		existing, err = uc.annotations.GetByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if !actor.CanEdit(existing) {
			return nil, errors.ErrPermissionDenied
		}
	}

	composed, err := uc.Compose(ctx, actor, req, existing)
	if err != nil {
		return nil, err
	}

	var saved *domain.Annotation
	if existing != nil {
		saved, err = uc.annotations.Update(ctx, composed)
	} else {
		saved, err = uc.annotations.Create(ctx, composed)
	}
	if err != nil {
		return nil, err
	}

	view, _ := uc.Project(ctx, actor, saved, nil)
	return &dto.AnnotateResponse{
		ID:         saved.ID,
		ResourceID: saved.Target.ResourceID,
		Annotation: view,
	}, nil
}

// Delete removes one annotation, subject to the ownership rule.
func (uc *AnnotationUseCase) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.Anonymous() {
		return errors.ErrUnauthenticated
	}

	ann, err := uc.annotations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanDelete(ann) {
		return errors.ErrPermissionDenied
	}

	if err := uc.annotations.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("Annotation deleted",
		zap.Int64("id", id),
		zap.Int64("actor_id", actor.ID),
	)
	return nil
}

// Search normalizes a raw spatial filter and runs it against the geometry
// index. Groups that do not validate are dropped; when nothing survives
// the search runs unconstrained, matching the "absent filter" semantics.
func (uc *AnnotationUseCase) Search(
	ctx context.Context,
	actor domain.Actor,
	req dto.SearchRequest,
) (*dto.SearchResponse, error) {
	query, _ := uc.normalizer.NormalizeGeo(ctx, req.Geo)

	anns, err := uc.annotations.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.SimplifiedAnnotationView, 0, len(anns))
	for _, ann := range anns {
		view, ok := uc.Project(ctx, actor, ann, nil)
		if !ok {
			continue
		}
		views = append(views, view)
	}

	return &dto.SearchResponse{Annotations: views, Total: len(views)}, nil
}

// TemplatesForContext lists the short schemas configured for "describe"
// (image annotation) or "locate" (map annotation).
func (uc *AnnotationUseCase) TemplatesForContext(ctx context.Context, contextType string) ([]*domain.ShortTemplateSchema, error) {
	switch contextType {
	case "describe":
		return uc.schemas.ListByIDs(ctx, uc.cfg.DescribeTemplates)
	case "locate":
		return uc.schemas.ListByIDs(ctx, uc.cfg.LocateTemplates)
	default:
		return nil, errors.ErrInvalidTemplateType
	}
}

// contextTemplates returns the configured template ids for the request's
// annotation context: describe when a media part is targeted, else locate.
func (uc *AnnotationUseCase) contextTemplates(mediaID int64) []int64 {
	if mediaID > 0 {
		return uc.cfg.DescribeTemplates
	}
	return uc.cfg.LocateTemplates
}

// selectTemplate reproduces the default-template rule: a template is only
// forced when metadata demands one, except that a single configured
// template (or empty-by-default unset) always applies as the default.
func (uc *AnnotationUseCase) selectTemplate(required bool, templates []int64) int64 {
	if len(templates) == 0 {
		return 0
	}
	if !required && len(templates) > 1 && uc.cfg.EmptyByDefault {
		return 0
	}
	return templates[0]
}
