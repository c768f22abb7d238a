package postgres

import (
	"context"
	"database/sql"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type resourceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewResourceRepository(db *DB) repository.ResourceRepository {
	return &resourceRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *resourceRepository) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	query := `
		SELECT id, kind, title, url, COALESCE(thumbnail, '')
		FROM resources
		WHERE id = $1
	`

	var resource domain.Resource
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&resource.ID, &resource.Kind, &resource.Title, &resource.URL, &resource.Thumbnail,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrResourceNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get resource", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &resource, nil
}

func (r *resourceRepository) GetMedia(ctx context.Context, id int64) (*domain.Media, error) {
	query := `
		SELECT id, resource_id, title
		FROM media
		WHERE id = $1
	`

	var media domain.Media
	err := r.db.QueryRowContext(ctx, query, id).Scan(&media.ID, &media.ResourceID, &media.Title)
	if err == sql.ErrNoRows {
		return nil, errors.ErrMediaNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get media", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &media, nil
}
