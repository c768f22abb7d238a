package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type propertyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPropertyRepository(db *DB) repository.PropertyRepository {
	return &propertyRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ResolvePropertyID matches "prefix:localname" case-insensitively against
// the vocabulary prefix and the property local name. 0 means unknown.
func (r *propertyRepository) ResolvePropertyID(ctx context.Context, term string) (int64, error) {
	prefix, local, ok := strings.Cut(term, ":")
	if !ok || prefix == "" || local == "" {
		return 0, nil
	}

	query := `
		SELECT p.id
		FROM properties p
		JOIN vocabularies v ON v.id = p.vocabulary_id
		WHERE LOWER(v.prefix) = LOWER($1) AND LOWER(p.local_name) = LOWER($2)
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, prefix, local).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Failed to resolve property term", zap.String("term", term), zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return id, nil
}

// GetCustomVocab reads a custom vocabulary by numeric id or by label.
func (r *propertyRepository) GetCustomVocab(ctx context.Context, ref string) (*domain.CustomVocab, error) {
	var (
		vocab domain.CustomVocab
		terms pq.StringArray
		err   error
	)

	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		err = r.db.QueryRowContext(ctx, `
			SELECT id, label, terms FROM custom_vocabs WHERE id = $1
		`, id).Scan(&vocab.ID, &vocab.Label, &terms)
	} else {
		err = r.db.QueryRowContext(ctx, `
			SELECT id, label, terms FROM custom_vocabs WHERE LOWER(label) = LOWER($1)
		`, ref).Scan(&vocab.ID, &vocab.Label, &terms)
	}

	if err == sql.ErrNoRows {
		return nil, errors.ErrVocabularyNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get custom vocabulary", zap.String("ref", ref), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	vocab.Terms = []string(terms)
	return &vocab, nil
}
