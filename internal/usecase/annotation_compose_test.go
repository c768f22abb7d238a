package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/annotation-microservice/internal/config"
	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/annotation-microservice/internal/usecase/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type composeFixture struct {
	uc          *AnnotationUseCase
	annotations *fakeAnnotationRepo
	resources   *fakeResourceRepo
	templates   *fakeTemplateRepo
}

func newComposeFixture(cfg config.AnnotateConfig) *composeFixture {
	resources := &fakeResourceRepo{
		resources: map[int64]*domain.Resource{
			100: {ID: 100, Kind: "item", Title: "Map of Paris", URL: "/items/100"},
			200: {ID: 200, Kind: "item", Title: "Battle report", URL: "/items/200"},
			300: {ID: 300, Kind: "item", Title: "Siege diary", URL: "/items/300"},
		},
		media: map[int64]*domain.Media{
			7: {ID: 7, ResourceID: 100, Title: "Plate 1"},
			8: {ID: 8, ResourceID: 200, Title: "Plate 2"},
		},
	}
	templates := &fakeTemplateRepo{templates: map[int64]*domain.Template{
		1: describeTemplate(),
	}}
	props := &fakePropertyRepo{
		terms: map[string]int64{},
		vocabs: map[string]*domain.CustomVocab{
			"3": {ID: 3, Terms: []string{"battle", "siege"}},
		},
	}
	annotations := newFakeAnnotationRepo()

	schemaUC := NewSchemaUseCase(templates, props, newFakeCache(), time.Minute, zap.NewNop())
	normalizer := NewQueryNormalizer(props, newFakeCache(), time.Minute, zap.NewNop())
	uc := NewAnnotationUseCase(annotations, resources, schemaUC, normalizer, cfg, zap.NewNop())

	return &composeFixture{uc: uc, annotations: annotations, resources: resources, templates: templates}
}

func editor() domain.Actor {
	return domain.Actor{ID: 5, Name: "ed", Role: domain.RoleEditor}
}

func TestCompose_GeometryOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("geographic key without media", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (2.29 48.85)",
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.GeometryKeyGeographic, ann.Target.GeometryKey)
		assert.Equal(t, domain.TargetRDFType, ann.Target.RDFType)
		assert.Equal(t, domain.FormatWKT, ann.Target.Format)
		assert.Equal(t, "POINT (2.29 48.85)", ann.Target.WKT)
		assert.Empty(t, ann.Bodies)
		assert.Zero(t, ann.TemplateID)
		assert.Equal(t, int64(5), ann.OwnerID)
		assert.True(t, ann.IsPublic)
	})

	t.Run("pixel key with media", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			MediaID:    7,
			WKT:        "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))",
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.GeometryKeyPixel, ann.Target.GeometryKey)
		assert.Equal(t, int64(7), ann.Target.MediaID)
	})

	t.Run("missing wkt", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{ResourceID: 100, WKT: "   "}, nil)
		assert.ErrorIs(t, err, errors.ErrMissingWKT)
	})

	t.Run("malformed wkt", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{ResourceID: 100, WKT: "POINT (2.29 48.85"}, nil)
		assert.ErrorIs(t, err, errors.ErrInvalidWKT)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{ResourceID: 999, WKT: "POINT (1 1)"}, nil)
		assert.ErrorIs(t, err, errors.ErrResourceNotFound)
	})

	t.Run("media of another resource", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			MediaID:    8,
			WKT:        "POINT (1 1)",
		}, nil)
		assert.ErrorIs(t, err, errors.ErrMediaNotFound)
	})
}

func TestCompose_Metadata(t *testing.T) {
	ctx := context.Background()
	cfg := config.AnnotateConfig{LocateTemplates: []int64{1}, DescribeTemplates: []int64{1}}

	t.Run("schema terms split into typed values", func(t *testing.T) {
		f := newComposeFixture(cfg)
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options: map[string]any{
				"dcterms:title":   "Battle site",
				"dcterms:subject": "battle",
				"dcterms:source":  "https://example.org/sources/1",
				"color":           "#ff0000",
				"o:internal":      "ignored",
				"unknown:term":    "dropped",
			},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(1), ann.TemplateID)
		require.Len(t, ann.Bodies, 1)
		primary := ann.Bodies[0]
		require.Len(t, primary.Values, 3)

		byTerm := map[string]domain.PropertyValue{}
		for _, v := range primary.Values {
			byTerm[v.Term] = v
		}
		assert.Equal(t, domain.TypeLiteral, byTerm["dcterms:title"].Type)
		assert.Equal(t, "Battle site", byTerm["dcterms:title"].Value)
		assert.Equal(t, domain.TypeVocab, byTerm["dcterms:subject"].Type)
		assert.Equal(t, domain.TypeURI, byTerm["dcterms:source"].Type)
		assert.Equal(t, "https://example.org/sources/1", byTerm["dcterms:source"].URI)
		assert.NotContains(t, byTerm, "unknown:term")
	})

	t.Run("resource links become separate bodies, duplicates coalesce", func(t *testing.T) {
		f := newComposeFixture(cfg)
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options: map[string]any{
				"dcterms:title": "linked",
				domain.TermHasBody: []any{
					"200", "300", "200",
				},
			},
		}, nil)
		require.NoError(t, err)

		// One primary body plus two distinct link bodies.
		require.Len(t, ann.Bodies, 3)
		assert.Equal(t, int64(0), ann.Bodies[0].ResourceRef())
		assert.Equal(t, int64(200), ann.Bodies[1].ResourceRef())
		assert.Equal(t, int64(300), ann.Bodies[2].ResourceRef())
	})

	t.Run("link to an unknown resource fails", func(t *testing.T) {
		f := newComposeFixture(cfg)
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options:    map[string]any{domain.TermHasBody: "999"},
		}, nil)
		assert.ErrorIs(t, err, errors.ErrResourceNotFound)
	})

	t.Run("non-numeric link value fails", func(t *testing.T) {
		f := newComposeFixture(cfg)
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options:    map[string]any{domain.TermHasBody: "not-an-id"},
		}, nil)
		assert.ErrorIs(t, err, errors.ErrResourceNotFound)
	})

	t.Run("metadata without a configured template fails", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options:    map[string]any{"dcterms:title": "orphan"},
		}, nil)
		assert.ErrorIs(t, err, errors.ErrTemplateRequired)
	})

	t.Run("broken template tolerated when metadata is empty", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{LocateTemplates: []int64{99}})
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
		}, nil)
		require.NoError(t, err)
		assert.Zero(t, ann.TemplateID)
	})

	t.Run("broken template fails when metadata is present", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{LocateTemplates: []int64{99}})
		_, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options:    map[string]any{"dcterms:title": "doomed"},
		}, nil)
		assert.Error(t, err)
	})
}

func TestCompose_Style(t *testing.T) {
	ctx := context.Background()

	t.Run("style keys produce the style class and blob", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
			Options: map[string]any{
				"color":  "#00ff00",
				"weight": float64(3),
			},
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.StyleClassSentinel, ann.Target.StyleClass)

		var blob map[string]map[string]any
		require.NoError(t, json.Unmarshal([]byte(ann.StyledBy), &blob))
		style := blob[domain.StyleClassSentinel]
		assert.Equal(t, "#00ff00", style["color"])
		assert.Equal(t, float64(3), style["weight"])
	})

	t.Run("no style keys leaves the target unstyled", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100,
			WKT:        "POINT (1 1)",
		}, nil)
		require.NoError(t, err)

		assert.Empty(t, ann.Target.StyleClass)
		assert.Empty(t, ann.StyledBy)
	})
}

func TestCompose_Update(t *testing.T) {
	ctx := context.Background()
	cfg := config.AnnotateConfig{LocateTemplates: []int64{1}}

	t.Run("existing identity and purpose carry over", func(t *testing.T) {
		f := newComposeFixture(cfg)
		created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		existing := &domain.Annotation{
			ID:       44,
			OwnerID:  9,
			IsPublic: false,
			Created:  created,
			Bodies: []domain.Body{{
				Purpose: "commenting",
				Values: []domain.PropertyValue{{
					Term: "dcterms:title", Type: domain.TypeLiteral, Value: "old title",
				}},
			}},
		}

		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ID:         44,
			ResourceID: 100,
			WKT:        "POINT (2 2)",
			Options:    map[string]any{"dcterms:title": "new title"},
		}, existing)
		require.NoError(t, err)

		assert.Equal(t, int64(44), ann.ID)
		assert.Equal(t, int64(9), ann.OwnerID)
		assert.False(t, ann.IsPublic)
		assert.Equal(t, created, ann.Created)
		require.Len(t, ann.Bodies, 1)
		assert.Equal(t, "commenting", ann.Bodies[0].Purpose)
	})

	t.Run("purpose dropped when no descriptive values remain", func(t *testing.T) {
		f := newComposeFixture(cfg)
		existing := &domain.Annotation{
			ID:     44,
			Bodies: []domain.Body{{Purpose: "commenting"}},
		}

		ann, err := f.uc.Compose(ctx, editor(), dto.AnnotateRequest{
			ID:         44,
			ResourceID: 100,
			WKT:        "POINT (2 2)",
		}, existing)
		require.NoError(t, err)
		assert.Empty(t, ann.Bodies)
	})
}

func TestStringValues(t *testing.T) {
	assert.Equal(t, []string{"a"}, stringValues(" a "))
	assert.Equal(t, []string{"a", "b"}, stringValues([]any{"a", " b "}))
	assert.Equal(t, []string{"3.5"}, stringValues(3.5))
	assert.Equal(t, []string{"true"}, stringValues(true))
	assert.Nil(t, stringValues(nil))
	assert.Nil(t, stringValues(map[string]any{"unsupported": 1}))
}
