package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LimitAnnotations caps one spatial search result set.
const LimitAnnotations = 1000

type annotationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAnnotationRepository(db *DB) repository.AnnotationRepository {
	return &annotationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const annotationColumns = `
	a.id, a.owner_id, a.owner_name, a.is_public, COALESCE(a.template_id, 0),
	COALESCE(a.styled_by, ''), a.created_at, a.updated_at,
	t.id, t.resource_id, COALESCE(t.media_id, 0), t.rdf_type, t.format,
	t.geometry_key, t.wkt, COALESCE(t.style_class, '')
`

func scanAnnotation(row interface{ Scan(...any) error }) (*domain.Annotation, error) {
	var a domain.Annotation
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.OwnerName, &a.IsPublic, &a.TemplateID,
		&a.StyledBy, &a.Created, &a.Modified,
		&a.Target.ID, &a.Target.ResourceID, &a.Target.MediaID,
		&a.Target.RDFType, &a.Target.Format,
		&a.Target.GeometryKey, &a.Target.WKT, &a.Target.StyleClass,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *annotationRepository) GetByID(ctx context.Context, id int64) (*domain.Annotation, error) {
	query := `
		SELECT ` + annotationColumns + `
		FROM annotations a
		JOIN annotation_targets t ON t.annotation_id = a.id
		WHERE a.id = $1
	`

	ann, err := scanAnnotation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrAnnotationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get annotation", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.loadBodies(ctx, ann); err != nil {
		return nil, err
	}
	return ann, nil
}

func (r *annotationRepository) ListByResource(ctx context.Context, resourceID int64) ([]*domain.Annotation, error) {
	query := `
		SELECT ` + annotationColumns + `
		FROM annotations a
		JOIN annotation_targets t ON t.annotation_id = a.id
		WHERE t.resource_id = $1
		ORDER BY a.id
	`

	rows, err := r.db.QueryContext(ctx, query, resourceID)
	if err != nil {
		r.logger.Error("Failed to list annotations", zap.Int64("resource_id", resourceID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

// Search joins the annotation targets against the geometry index through
// the predicates built from the normalized query. No groups means no
// spatial constraint.
func (r *annotationRepository) Search(ctx context.Context, query domain.SpatialQuery) ([]*domain.Annotation, error) {
	predicates := buildSpatialPredicates(query, "t.resource_id", 1, r.logger)

	var sb strings.Builder
	sb.WriteString(`SELECT DISTINCT ` + annotationColumns + `
		FROM annotations a
		JOIN annotation_targets t ON t.annotation_id = a.id
	`)
	for _, join := range predicates.joins {
		sb.WriteString(join)
		sb.WriteString("\n")
	}
	sb.WriteString("WHERE t.format = '" + domain.FormatWKT + "'")
	for _, where := range predicates.wheres {
		sb.WriteString(" AND ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY a.id LIMIT ")
	sb.WriteString(strconv.Itoa(LimitAnnotations))

	rows, err := r.db.QueryContext(ctx, sb.String(), predicates.args...)
	if err != nil {
		r.logger.Error("Failed to run spatial search", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collect(ctx, rows)
}

func (r *annotationRepository) collect(ctx context.Context, rows *sql.Rows) ([]*domain.Annotation, error) {
	var anns []*domain.Annotation
	for rows.Next() {
		ann, err := scanAnnotation(rows)
		if err != nil {
			r.logger.Error("Failed to scan annotation", zap.Error(err))
			continue
		}
		anns = append(anns, ann)
	}

	for _, ann := range anns {
		if err := r.loadBodies(ctx, ann); err != nil {
			return nil, err
		}
	}
	return anns, nil
}

func (r *annotationRepository) loadBodies(ctx context.Context, ann *domain.Annotation) error {
	query := `
		SELECT id, COALESCE(purpose, ''), "values"
		FROM annotation_bodies
		WHERE annotation_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, ann.ID)
	if err != nil {
		r.logger.Error("Failed to load bodies", zap.Int64("annotation_id", ann.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer rows.Close()

	for rows.Next() {
		var body domain.Body
		var valuesJSON []byte
		if err := rows.Scan(&body.ID, &body.Purpose, &valuesJSON); err != nil {
			r.logger.Error("Failed to scan body", zap.Int64("annotation_id", ann.ID), zap.Error(err))
			continue
		}
		if len(valuesJSON) > 0 {
			if err := json.Unmarshal(valuesJSON, &body.Values); err != nil {
				r.logger.Warn("Failed to unmarshal body values", zap.Int64("body_id", body.ID), zap.Error(err))
			}
		}
		ann.Bodies = append(ann.Bodies, body)
	}
	return nil
}

func (r *annotationRepository) Create(ctx context.Context, ann *domain.Annotation) (*domain.Annotation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO annotations (owner_id, owner_name, is_public, template_id, styled_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, 0), NULLIF($5, ''), NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, ann.OwnerID, ann.OwnerName, ann.IsPublic, ann.TemplateID, ann.StyledBy).
		Scan(&ann.ID, &ann.Created, &ann.Modified)
	if err != nil {
		r.logger.Error("Failed to insert annotation", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.insertTargetAndBodies(ctx, tx, ann); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit annotation", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return ann, nil
}

// Update replaces the target and body set wholesale; annotations are
// never patched field by field.
func (r *annotationRepository) Update(ctx context.Context, ann *domain.Annotation) (*domain.Annotation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE annotations
		SET template_id = NULLIF($2, 0), styled_by = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`, ann.ID, ann.TemplateID, ann.StyledBy)
	if err != nil {
		r.logger.Error("Failed to update annotation", zap.Int64("id", ann.ID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, errors.ErrAnnotationNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM annotation_targets WHERE annotation_id = $1`, ann.ID); err != nil {
		r.logger.Error("Failed to clear target", zap.Int64("id", ann.ID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM annotation_bodies WHERE annotation_id = $1`, ann.ID); err != nil {
		r.logger.Error("Failed to clear bodies", zap.Int64("id", ann.ID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if err := r.insertTargetAndBodies(ctx, tx, ann); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit annotation update", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return ann, nil
}

func (r *annotationRepository) insertTargetAndBodies(ctx context.Context, tx *sqlx.Tx, ann *domain.Annotation) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO annotation_targets
			(annotation_id, resource_id, media_id, rdf_type, format, geometry_key, wkt, style_class)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING id
	`, ann.ID, ann.Target.ResourceID, ann.Target.MediaID,
		ann.Target.RDFType, ann.Target.Format,
		ann.Target.GeometryKey, ann.Target.WKT, ann.Target.StyleClass).
		Scan(&ann.Target.ID)
	if err != nil {
		r.logger.Error("Failed to insert target", zap.Int64("annotation_id", ann.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}

	for i := range ann.Bodies {
		valuesJSON, err := json.Marshal(ann.Bodies[i].Values)
		if err != nil {
			r.logger.Error("Failed to marshal body values", zap.Error(err))
			return errors.ErrDatabaseError
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO annotation_bodies (annotation_id, purpose, "values")
			VALUES ($1, NULLIF($2, ''), $3)
			RETURNING id
		`, ann.ID, ann.Bodies[i].Purpose, valuesJSON).Scan(&ann.Bodies[i].ID)
		if err != nil {
			r.logger.Error("Failed to insert body", zap.Int64("annotation_id", ann.ID), zap.Error(err))
			return errors.ErrDatabaseError
		}
	}
	return nil
}

func (r *annotationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM annotations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete annotation", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.ErrAnnotationNotFound
	}
	return nil
}
