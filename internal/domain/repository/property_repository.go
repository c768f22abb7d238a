package repository

import (
	"context"

	"github.com/annotation-microservice/internal/domain"
)

// PropertyRepository resolves property terms and custom vocabularies
// against the catalog. The catalog changes rarely; callers are expected to
// memoize lookups.
type PropertyRepository interface {
	// ResolvePropertyID resolves a "prefix:localname" term, matched
	// case-insensitively against vocabulary prefix and local name, to its
	// numeric id. Returns 0 when the term is unknown.
	ResolvePropertyID(ctx context.Context, term string) (int64, error)

	// GetCustomVocab reads a custom vocabulary by numeric id or label.
	GetCustomVocab(ctx context.Context, ref string) (*domain.CustomVocab, error)
}
