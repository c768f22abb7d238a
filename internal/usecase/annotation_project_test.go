package usecase

import (
	"context"
	"testing"

	"github.com/annotation-microservice/internal/config"
	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/usecase/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wktAnnotation(mediaID int64) *domain.Annotation {
	return &domain.Annotation{
		ID:       1,
		OwnerID:  5,
		IsPublic: true,
		Target: domain.Target{
			ResourceID:  100,
			MediaID:     mediaID,
			RDFType:     domain.TargetRDFType,
			Format:      domain.FormatWKT,
			GeometryKey: domain.GeometryKeyGeographic,
			WKT:         "POINT (2.29 48.85)",
		},
	}
}

func TestProject_Filtering(t *testing.T) {
	ctx := context.Background()
	f := newComposeFixture(config.AnnotateConfig{})
	actor := editor()

	t.Run("wkt target projects", func(t *testing.T) {
		view, ok := f.uc.Project(ctx, actor, wktAnnotation(0), nil)
		require.True(t, ok)
		assert.Equal(t, "POINT (2.29 48.85)", view.WKT)
		assert.True(t, view.Rights.Edit)
		assert.True(t, view.Rights.Delete)
	})

	t.Run("foreign format skipped", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Target.Format = "image/png"
		_, ok := f.uc.Project(ctx, actor, ann, nil)
		assert.False(t, ok)
	})

	t.Run("detached target skipped", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Target.ResourceID = 0
		_, ok := f.uc.Project(ctx, actor, ann, nil)
		assert.False(t, ok)
	})

	t.Run("empty geometry skipped", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Target.WKT = "   "
		_, ok := f.uc.Project(ctx, actor, ann, nil)
		assert.False(t, ok)
	})

	t.Run("srid prefix stripped from the view", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Target.WKT = "SRID=4326;POINT (2.29 48.85)"
		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)
		assert.Equal(t, "POINT (2.29 48.85)", view.WKT)
	})

	t.Run("viewer has no rights on another owner's annotation", func(t *testing.T) {
		viewer := domain.Actor{ID: 77, Role: domain.RoleViewer}
		view, ok := f.uc.Project(ctx, viewer, wktAnnotation(0), nil)
		require.True(t, ok)
		assert.False(t, view.Rights.Edit)
		assert.False(t, view.Rights.Delete)
	})
}

func TestProject_MediaFilter(t *testing.T) {
	ctx := context.Background()
	f := newComposeFixture(config.AnnotateConfig{})
	actor := editor()

	zero := int64(0)
	seven := int64(7)

	t.Run("nil filter passes everything", func(t *testing.T) {
		_, ok := f.uc.Project(ctx, actor, wktAnnotation(0), nil)
		assert.True(t, ok)
		_, ok = f.uc.Project(ctx, actor, wktAnnotation(7), nil)
		assert.True(t, ok)
	})

	t.Run("zero filter passes only media-less annotations", func(t *testing.T) {
		_, ok := f.uc.Project(ctx, actor, wktAnnotation(0), &zero)
		assert.True(t, ok)
		_, ok = f.uc.Project(ctx, actor, wktAnnotation(7), &zero)
		assert.False(t, ok)
	})

	t.Run("positive filter passes only the exact media", func(t *testing.T) {
		_, ok := f.uc.Project(ctx, actor, wktAnnotation(7), &seven)
		assert.True(t, ok)
		_, ok = f.uc.Project(ctx, actor, wktAnnotation(8), &seven)
		assert.False(t, ok)
		_, ok = f.uc.Project(ctx, actor, wktAnnotation(0), &seven)
		assert.False(t, ok)
	})
}

func TestProject_Metadata(t *testing.T) {
	ctx := context.Background()
	f := newComposeFixture(config.AnnotateConfig{})
	actor := editor()

	t.Run("values flatten by term, purpose surfaces", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Bodies = []domain.Body{{
			Purpose: "commenting",
			Values: []domain.PropertyValue{
				{Term: "dcterms:title", Type: domain.TypeLiteral, Value: "Battle site"},
				{Term: "dcterms:source", Type: domain.TypeURI, Value: "src", URI: "https://example.org/1"},
			},
		}}

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)

		assert.Equal(t, "commenting", view.Metadata[domain.TermHasPurpose])
		assert.Equal(t, "Battle site", view.Metadata["dcterms:title"])
		assert.Equal(t, map[string]any{
			"value": "src",
			"uri":   "https://example.org/1",
		}, view.Metadata["dcterms:source"])
	})

	t.Run("repeated terms promote to a list", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Bodies = []domain.Body{{
			Values: []domain.PropertyValue{
				{Term: "dcterms:subject", Type: domain.TypeVocab, Value: "battle"},
				{Term: "dcterms:subject", Type: domain.TypeVocab, Value: "siege"},
			},
		}}

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)
		assert.Equal(t, []any{"battle", "siege"}, view.Metadata["dcterms:subject"])
	})

	t.Run("resource links surface expanded under the body term", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Bodies = []domain.Body{
			{Values: []domain.PropertyValue{{Term: domain.TermRDFValue, Type: domain.TypeResourceLink, ResourceID: 200}}},
		}

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)

		link, ok := view.Metadata[domain.TermHasBody].(domain.ResourceLinkView)
		require.True(t, ok)
		assert.Equal(t, int64(200), link.ID)
		assert.Equal(t, "Battle report", link.Title)
		assert.Equal(t, "/items/200", link.URL)
	})

	t.Run("unreadable linked resource dropped from the view", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Bodies = []domain.Body{
			{Values: []domain.PropertyValue{{Term: domain.TermRDFValue, Type: domain.TypeResourceLink, ResourceID: 999}}},
		}

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)
		assert.NotContains(t, view.Metadata, domain.TermHasBody)
	})
}

func TestProject_StyleOptions(t *testing.T) {
	ctx := context.Background()
	f := newComposeFixture(config.AnnotateConfig{})
	actor := editor()

	t.Run("style surfaces only with the marker class", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Target.StyleClass = domain.StyleClassSentinel
		ann.StyledBy = `{"leaflet-interactive":{"color":"#ff0000","weight":2}}`

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)
		assert.Equal(t, "#ff0000", view.Options["color"])
	})

	t.Run("blob ignored without the marker class", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.StyledBy = `{"leaflet-interactive":{"color":"#ff0000"}}`

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)
		assert.Nil(t, view.Options)
	})

	t.Run("corrupt blob yields no options", func(t *testing.T) {
		ann := wktAnnotation(0)
		ann.Target.StyleClass = domain.StyleClassSentinel
		ann.StyledBy = `{not json`

		view, ok := f.uc.Project(ctx, actor, ann, nil)
		require.True(t, ok)
		assert.Nil(t, view.Options)
	})
}

func TestComposeThenProject(t *testing.T) {
	ctx := context.Background()
	f := newComposeFixture(config.AnnotateConfig{LocateTemplates: []int64{1}})
	actor := editor()

	ann, err := f.uc.Compose(ctx, actor, dto.AnnotateRequest{
		ResourceID: 100,
		WKT:        "POINT (2.29 48.85)",
		Options: map[string]any{
			"dcterms:title":    "On the hill",
			"color":            "#0000ff",
			domain.TermHasBody: "300",
		},
	}, nil)
	require.NoError(t, err)

	view, ok := f.uc.Project(ctx, actor, ann, nil)
	require.True(t, ok)

	assert.Equal(t, "POINT (2.29 48.85)", view.WKT)
	assert.Equal(t, "On the hill", view.Metadata["dcterms:title"])
	assert.Equal(t, "#0000ff", view.Options["color"])

	link, isLink := view.Metadata[domain.TermHasBody].(domain.ResourceLinkView)
	require.True(t, isLink)
	assert.Equal(t, int64(300), link.ID)
}
