package repository

import (
	"context"

	"github.com/annotation-microservice/internal/domain"
)

// AnnotationRepository persists annotations and runs spatial searches
// against the geometry-indexed side table.
type AnnotationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Annotation, error)

	// ListByResource returns every WKT-target annotation anchored to the
	// resource, regardless of media association; media filtering is the
	// projector's concern.
	ListByResource(ctx context.Context, resourceID int64) ([]*domain.Annotation, error)

	// Search returns annotations whose target resource satisfies every
	// group of the normalized spatial query.
	Search(ctx context.Context, query domain.SpatialQuery) ([]*domain.Annotation, error)

	Create(ctx context.Context, ann *domain.Annotation) (*domain.Annotation, error)

	// Update replaces the whole target/body set of an existing annotation.
	Update(ctx context.Context, ann *domain.Annotation) (*domain.Annotation, error)

	Delete(ctx context.Context, id int64) error
}
