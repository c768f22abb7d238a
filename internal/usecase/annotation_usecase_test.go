package usecase

import (
	"context"
	"testing"

	"github.com/annotation-microservice/internal/config"
	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/annotation-microservice/internal/usecase/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous actor rejected", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Annotate(ctx, domain.Actor{}, dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	})

	t.Run("create then read back", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		resp, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (2.29 48.85)",
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, int64(100), resp.ResourceID)
		require.NotNil(t, resp.Annotation)
		assert.Equal(t, "POINT (2.29 48.85)", resp.Annotation.WKT)

		got, err := f.uc.GetGeometries(ctx, editor(), dto.GeometriesRequest{ResourceID: 100})
		require.NoError(t, err)
		require.Len(t, got.Geometries, 1)
		assert.Equal(t, resp.ID, got.Geometries[0].ID)
	})

	t.Run("update replaces state and keeps identity", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		created, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)

		updated, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ID: created.ID, ResourceID: 100, WKT: "POINT (2 2)",
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "POINT (2 2)", updated.Annotation.WKT)
	})

	t.Run("author cannot update another owner's annotation", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		created, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)

		author := domain.Actor{ID: 99, Role: domain.RoleAuthor}
		_, err = f.uc.Annotate(ctx, author, dto.AnnotateRequest{
			ID: created.ID, ResourceID: 100, WKT: "POINT (2 2)",
		})
		assert.ErrorIs(t, err, errors.ErrPermissionDenied)
	})

	t.Run("update of a missing annotation is not found", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ID: 12345, ResourceID: 100, WKT: "POINT (1 1)",
		})
		assert.ErrorIs(t, err, errors.ErrAnnotationNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		author := domain.Actor{ID: 9, Role: domain.RoleAuthor}
		created, err := f.uc.Annotate(ctx, author, dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)

		require.NoError(t, f.uc.Delete(ctx, author, created.ID))

		err = f.uc.Delete(ctx, author, created.ID)
		assert.ErrorIs(t, err, errors.ErrAnnotationNotFound)
	})

	t.Run("anonymous delete rejected", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		err := f.uc.Delete(ctx, domain.Actor{}, 1)
		assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	})

	t.Run("foreign author rejected", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		created, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)

		err = f.uc.Delete(ctx, domain.Actor{ID: 99, Role: domain.RoleAuthor}, created.ID)
		assert.ErrorIs(t, err, errors.ErrPermissionDenied)
	})
}

func TestGetGeometries(t *testing.T) {
	ctx := context.Background()

	t.Run("single annotation by id", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		created, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)

		got, err := f.uc.GetGeometries(ctx, editor(), dto.GeometriesRequest{
			ResourceID: 100, AnnotationID: created.ID,
		})
		require.NoError(t, err)
		require.Len(t, got.Geometries, 1)
	})

	t.Run("annotation of another resource is not found", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		created, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)

		_, err = f.uc.GetGeometries(ctx, editor(), dto.GeometriesRequest{
			ResourceID: 200, AnnotationID: created.ID,
		})
		assert.ErrorIs(t, err, errors.ErrAnnotationNotFound)
	})

	t.Run("media filter applies to the listing", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (1 1)",
		})
		require.NoError(t, err)
		_, err = f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, MediaID: 7, WKT: "POINT (5 5)",
		})
		require.NoError(t, err)

		all, err := f.uc.GetGeometries(ctx, editor(), dto.GeometriesRequest{ResourceID: 100})
		require.NoError(t, err)
		assert.Len(t, all.Geometries, 2)

		zero := int64(0)
		bare, err := f.uc.GetGeometries(ctx, editor(), dto.GeometriesRequest{ResourceID: 100, MediaID: &zero})
		require.NoError(t, err)
		assert.Len(t, bare.Geometries, 1)

		seven := int64(7)
		onMedia, err := f.uc.GetGeometries(ctx, editor(), dto.GeometriesRequest{ResourceID: 100, MediaID: &seven})
		require.NoError(t, err)
		assert.Len(t, onMedia.Geometries, 1)
		assert.Equal(t, int64(7), onMedia.Geometries[0].MediaID)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("normalized query reaches the repository", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		_, err := f.uc.Annotate(ctx, editor(), dto.AnnotateRequest{
			ResourceID: 100, WKT: "POINT (2.29 48.85)",
		})
		require.NoError(t, err)

		resp, err := f.uc.Search(ctx, editor(), dto.SearchRequest{
			Geo: map[string]any{"latlong": "48.85, 2.29", "radius": float64(5)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)

		require.Len(t, f.annotations.lastSearch.Groups, 1)
		assert.Equal(t, domain.PredicateLatLong, f.annotations.lastSearch.Groups[0].Kind())
	})

	t.Run("unusable filter searches unconstrained", func(t *testing.T) {
		f := newComposeFixture(config.AnnotateConfig{})
		resp, err := f.uc.Search(ctx, editor(), dto.SearchRequest{
			Geo: map[string]any{"latlong": "999, 999", "radius": float64(5)},
		})
		require.NoError(t, err)
		assert.Zero(t, resp.Total)
		assert.Empty(t, f.annotations.lastSearch.Groups)
	})
}

func TestTemplatesForContext(t *testing.T) {
	ctx := context.Background()
	cfg := config.AnnotateConfig{
		DescribeTemplates: []int64{1},
		LocateTemplates:   []int64{1},
	}

	t.Run("describe and locate list their schemas", func(t *testing.T) {
		f := newComposeFixture(cfg)
		for _, kind := range []string{"describe", "locate"} {
			schemas, err := f.uc.TemplatesForContext(ctx, kind)
			require.NoError(t, err)
			require.Len(t, schemas, 1, kind)
			assert.Equal(t, int64(1), schemas[0].TemplateID)
		}
	})

	t.Run("unknown context rejected", func(t *testing.T) {
		f := newComposeFixture(cfg)
		_, err := f.uc.TemplatesForContext(ctx, "paint")
		assert.ErrorIs(t, err, errors.ErrInvalidTemplateType)
	})
}

func TestSelectTemplate(t *testing.T) {
	cases := []struct {
		name      string
		required  bool
		templates []int64
		emptyDef  bool
		want      int64
	}{
		{"none configured", true, nil, false, 0},
		{"single template always applies", false, []int64{4}, true, 4},
		{"first wins when required", true, []int64{4, 5}, true, 4},
		{"empty by default skips optional", false, []int64{4, 5}, true, 0},
		{"optional still defaults without the flag", false, []int64{4, 5}, false, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newComposeFixture(config.AnnotateConfig{EmptyByDefault: tc.emptyDef})
			got := f.uc.selectTemplate(tc.required, tc.templates)
			assert.Equal(t, tc.want, got)
		})
	}
}
