package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/pkg/errors"
	"github.com/annotation-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// reservedOptionPrefix marks host-internal option keys; they never count
// as metadata.
const reservedOptionPrefix = "o:"

// styleOptionKeys are the structural drawing-style keys of the options
// map. Everything else that is not reserved is metadata keyed by schema
// property term.
var styleOptionKeys = map[string]struct{}{
	"color":        {},
	"weight":       {},
	"opacity":      {},
	"fillColor":    {},
	"fillOpacity":  {},
	"radius":       {},
	"dashArray":    {},
	"popupContent": {},
}

// Compose maps a submitted annotation state onto the fixed record model:
// one target plus N bodies. existing is non-nil on full-replace updates.
func (uc *AnnotationUseCase) Compose(
	ctx context.Context,
	actor domain.Actor,
	req dto.AnnotateRequest,
	existing *domain.Annotation,
) (*domain.Annotation, error) {
	wktValue := strings.TrimSpace(req.WKT)
	if wktValue == "" {
		return nil, errors.ErrMissingWKT
	}
	if _, err := domain.ParseWKT(wktValue); err != nil {
		return nil, errors.ErrInvalidWKT
	}

	if _, err := uc.resources.GetResource(ctx, req.ResourceID); err != nil {
		return nil, err
	}
	if req.MediaID > 0 {
		media, err := uc.resources.GetMedia(ctx, req.MediaID)
		if err != nil {
			return nil, err
		}
		if media.ResourceID != req.ResourceID {
			return nil, errors.ErrMediaNotFound
		}
	}

	metadata := metadataFromOptions(req.Options)
	style := styleFromOptions(req.Options)

	schema, templateID, err := uc.resolveSchema(ctx, req.MediaID, metadata)
	if err != nil {
		return nil, err
	}

	bodies, err := uc.composeBodies(ctx, schema, metadata, existing)
	if err != nil {
		return nil, err
	}

	ann := &domain.Annotation{
		TemplateID: templateID,
		Bodies:     bodies,
		Target: domain.Target{
			ResourceID: req.ResourceID,
			MediaID:    req.MediaID,
			RDFType:    domain.TargetRDFType,
			Format:     domain.FormatWKT,
			WKT:        wktValue,
		},
	}

	// Pixel geometry when a media part is targeted, geographic otherwise.
	// fetchSimpleGeometries relies on this key to pick the coordinate
	// system.
	if req.MediaID > 0 {
		ann.Target.GeometryKey = domain.GeometryKeyPixel
	} else {
		ann.Target.GeometryKey = domain.GeometryKeyGeographic
	}

	if len(style) > 0 {
		ann.Target.StyleClass = domain.StyleClassSentinel
		blob, err := json.Marshal(map[string]any{domain.StyleClassSentinel: style})
		if err != nil {
			uc.logger.Warn("Failed to serialize style options", zap.Error(err))
		} else {
			ann.StyledBy = string(blob)
		}
	}

	if existing != nil {
		ann.ID = existing.ID
		ann.OwnerID = existing.OwnerID
		ann.OwnerName = existing.OwnerName
		ann.IsPublic = existing.IsPublic
		ann.Created = existing.Created
	} else {
		ann.OwnerID = actor.ID
		ann.OwnerName = actor.Name
		ann.IsPublic = true
	}

	return ann, nil
}

// resolveSchema decides whether a template applies and projects it. A
// template is required only when metadata carries at least one non-empty
// value; composing a geometry-only annotation needs no template at all.
func (uc *AnnotationUseCase) resolveSchema(
	ctx context.Context,
	mediaID int64,
	metadata map[string]any,
) (*domain.ShortTemplateSchema, int64, error) {
	required := hasNonEmptyValue(metadata)
	templates := uc.contextTemplates(mediaID)

	templateID := uc.selectTemplate(required, templates)
	if templateID == 0 {
		if required {
			return nil, 0, errors.ErrTemplateRequired
		}
		return nil, 0, nil
	}

	schema, err := uc.schemas.Project(ctx, templateID)
	if err != nil {
		if !required {
			// A broken default template must not block geometry-only
			// saves.
			return nil, 0, nil
		}
		return nil, 0, err
	}
	if schema == nil {
		if !required {
			return nil, 0, nil
		}
		return nil, 0, errors.ErrTemplateMisconfigured
	}

	return schema, templateID, nil
}

// composeBodies validates metadata against the schema term list and
// encodes each recognized term by its inferred type. Unrecognized terms
// are dropped silently as defense against stale or forged payloads.
func (uc *AnnotationUseCase) composeBodies(
	ctx context.Context,
	schema *domain.ShortTemplateSchema,
	metadata map[string]any,
	existing *domain.Annotation,
) ([]domain.Body, error) {
	var primary domain.Body
	if existing != nil {
		if prior := existing.PrimaryBody(); prior != nil {
			primary.Purpose = prior.Purpose
		}
	}

	var linkBodies []domain.Body
	if schema != nil {
		seenResources := make(map[int64]struct{})
		for _, prop := range schema.Properties {
			raw, ok := metadata[prop.Term]
			if !ok {
				continue
			}
			for _, value := range stringValues(raw) {
				if value == "" {
					continue
				}

				switch prop.Type {
				case domain.UIResource:
					body, err := uc.composeLinkBody(ctx, value, seenResources)
					if err != nil {
						return nil, err
					}
					if body != nil {
						linkBodies = append(linkBodies, *body)
					}
				case domain.UIURI:
					primary.Values = append(primary.Values, domain.PropertyValue{
						Term:  prop.Term,
						Type:  domain.TypeURI,
						Value: value,
						URI:   value,
					})
				case domain.UIValueSuggest:
					primary.Values = append(primary.Values, domain.PropertyValue{
						Term:  prop.Term,
						Type:  domain.TypeSuggest,
						Value: value,
						URI:   value,
					})
				case domain.UISelect:
					primary.Values = append(primary.Values, domain.PropertyValue{
						Term:  prop.Term,
						Type:  domain.TypeVocab,
						Value: value,
					})
				default:
					primary.Values = append(primary.Values, domain.PropertyValue{
						Term:  prop.Term,
						Type:  domain.TypeLiteral,
						Value: value,
					})
				}
			}
		}
	}

	// A purpose marker on a body with no descriptive content is noise;
	// strip it rather than persist an empty-purpose body.
	if !hasLiteralValue(primary) {
		primary.Purpose = ""
	}

	bodies := make([]domain.Body, 0, 1+len(linkBodies))
	if len(primary.Values) > 0 || primary.Purpose != "" {
		bodies = append(bodies, primary)
	}
	bodies = append(bodies, linkBodies...)
	return bodies, nil
}

// composeLinkBody turns one oa:hasBody value into a resource-link body.
// Duplicate resource ids across the submitted values coalesce, first
// occurrence wins.
func (uc *AnnotationUseCase) composeLinkBody(
	ctx context.Context,
	value string,
	seen map[int64]struct{},
) (*domain.Body, error) {
	resourceID, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || resourceID <= 0 {
		return nil, errors.ErrResourceNotFound
	}
	if _, dup := seen[resourceID]; dup {
		return nil, nil
	}

	if _, err := uc.resources.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}

	seen[resourceID] = struct{}{}
	return &domain.Body{
		Values: []domain.PropertyValue{{
			Term:       domain.TermRDFValue,
			Type:       domain.TypeResourceLink,
			ResourceID: resourceID,
		}},
	}, nil
}

// metadataFromOptions extracts the schema-term metadata entries from the
// mixed options map.
func metadataFromOptions(options map[string]any) map[string]any {
	metadata := make(map[string]any, len(options))
	for key, value := range options {
		if isReservedOptionKey(key) {
			continue
		}
		metadata[key] = value
	}
	return metadata
}

// styleFromOptions extracts the drawing-style entries.
func styleFromOptions(options map[string]any) map[string]any {
	style := make(map[string]any, len(options))
	for key, value := range options {
		if _, ok := styleOptionKeys[key]; !ok {
			continue
		}
		if value == nil {
			continue
		}
		style[key] = value
	}
	return style
}

func isReservedOptionKey(key string) bool {
	if strings.HasPrefix(key, reservedOptionPrefix) {
		return true
	}
	_, structural := styleOptionKeys[key]
	return structural
}

func hasNonEmptyValue(metadata map[string]any) bool {
	for _, raw := range metadata {
		for _, v := range stringValues(raw) {
			if v != "" {
				return true
			}
		}
	}
	return false
}

func hasLiteralValue(body domain.Body) bool {
	for _, v := range body.Values {
		if (v.Type == domain.TypeLiteral || v.Type == domain.TypeVocab) && v.Value != "" {
			return true
		}
	}
	return false
}

// stringValues flattens a metadata value into its submitted strings.
// Scalars and arrays of scalars are both accepted.
func stringValues(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []string{strings.TrimSpace(v)}
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, strings.TrimSpace(s))
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringValues(item)...)
		}
		return out
	case float64:
		return []string{strconv.FormatFloat(v, 'f', -1, 64)}
	case int:
		return []string{strconv.Itoa(v)}
	case int64:
		return []string{strconv.FormatInt(v, 10)}
	case bool:
		return []string{strconv.FormatBool(v)}
	default:
		return nil
	}
}
