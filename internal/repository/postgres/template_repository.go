package postgres

import (
	"context"
	"database/sql"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type templateRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTemplateRepository(db *DB) repository.TemplateRepository {
	return &templateRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *templateRepository) GetTemplate(ctx context.Context, id int64) (*domain.Template, error) {
	var template domain.Template
	err := r.db.QueryRowContext(ctx, `
		SELECT id, label FROM resource_templates WHERE id = $1
	`, id).Scan(&template.ID, &template.Label)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTemplateNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get template", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	properties, err := r.loadProperties(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	template.Properties = properties[id]
	return &template, nil
}

func (r *templateRepository) ListTemplates(ctx context.Context, ids []int64) ([]*domain.Template, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, label FROM resource_templates WHERE id = ANY($1) ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to list templates", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Template)
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Label); err != nil {
			r.logger.Error("Failed to scan template", zap.Error(err))
			continue
		}
		byID[t.ID] = &t
	}

	properties, err := r.loadProperties(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve the configured order, skipping unknown ids.
	templates := make([]*domain.Template, 0, len(byID))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		t.Properties = properties[id]
		templates = append(templates, t)
	}
	return templates, nil
}

// loadProperties reads the template property rows in template order.
func (r *templateRepository) loadProperties(ctx context.Context, templateIDs []int64) (map[int64][]domain.TemplateProperty, error) {
	query := `
		SELECT
			tp.template_id, tp.property_id,
			LOWER(v.prefix) || ':' || p.local_name AS term,
			COALESCE(NULLIF(tp.alternate_label, ''), p.label) AS label,
			COALESCE(tp.comment, ''), COALESCE(tp.data_type, ''),
			tp.is_required, tp.position
		FROM resource_template_properties tp
		JOIN properties p ON p.id = tp.property_id
		JOIN vocabularies v ON v.id = p.vocabulary_id
		WHERE tp.template_id = ANY($1)
		ORDER BY tp.template_id, tp.position
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(templateIDs))
	if err != nil {
		r.logger.Error("Failed to load template properties", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	out := make(map[int64][]domain.TemplateProperty)
	for rows.Next() {
		var (
			templateID int64
			tp         domain.TemplateProperty
		)
		err := rows.Scan(
			&templateID, &tp.PropertyID, &tp.Term, &tp.Label,
			&tp.Comment, &tp.DataType, &tp.Required, &tp.Position,
		)
		if err != nil {
			r.logger.Error("Failed to scan template property", zap.Error(err))
			continue
		}
		out[templateID] = append(out[templateID], tp)
	}
	return out, nil
}
