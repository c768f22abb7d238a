package repository

import (
	"context"

	"github.com/annotation-microservice/internal/domain"
)

// TemplateRepository reads full property templates from the catalog.
type TemplateRepository interface {
	GetTemplate(ctx context.Context, id int64) (*domain.Template, error)
	ListTemplates(ctx context.Context, ids []int64) ([]*domain.Template, error)
}
