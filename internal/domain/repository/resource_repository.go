package repository

import (
	"context"

	"github.com/annotation-microservice/internal/domain"
)

// ResourceRepository reads CMS resources and media. Storage of those
// records is owned by the host CMS, never written here.
type ResourceRepository interface {
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
	GetMedia(ctx context.Context, id int64) (*domain.Media, error)
}
