package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/annotation-microservice/internal/domain"
	"go.uber.org/zap"
)

// Project flattens a persisted annotation into the client view, or
// reports it skipped. mediaFilter is tri-state: nil returns the
// annotation regardless of media association, 0 only when it has none,
// a positive id only on an exact media match.
func (uc *AnnotationUseCase) Project(
	ctx context.Context,
	actor domain.Actor,
	ann *domain.Annotation,
	mediaFilter *int64,
) (*domain.SimplifiedAnnotationView, bool) {
	target := ann.Target

	// Only WKT-format targets belong to this system; anything else was
	// written by another annotator and is ignored.
	if target.ResourceID == 0 || target.Format != domain.FormatWKT {
		return nil, false
	}

	wktValue, _ := domain.StripSRID(target.WKT)
	wktValue = strings.TrimSpace(wktValue)
	if wktValue == "" {
		return nil, false
	}

	if mediaFilter != nil {
		if *mediaFilter == 0 && target.MediaID != 0 {
			return nil, false
		}
		if *mediaFilter > 0 && target.MediaID != *mediaFilter {
			return nil, false
		}
	}

	view := &domain.SimplifiedAnnotationView{
		ID:         ann.ID,
		WKT:        wktValue,
		MediaID:    target.MediaID,
		IsPublic:   ann.IsPublic,
		OwnerID:    ann.OwnerID,
		OwnerName:  ann.OwnerName,
		TemplateID: ann.TemplateID,
		Created:    ann.Created,
		Modified:   ann.Modified,
		Metadata:   uc.flattenMetadata(ctx, ann),
		Rights: domain.RightsView{
			Edit:   actor.CanEdit(ann),
			Delete: actor.CanDelete(ann),
		},
	}

	if target.StyleClass == domain.StyleClassSentinel {
		view.Options = styleOptions(ann.StyledBy)
	}

	return view, true
}

// styleOptions parses the annotation-level style blob and surfaces the
// sub-object stored under the fixed css class key.
func styleOptions(styledBy string) map[string]any {
	if styledBy == "" {
		return nil
	}
	var blob map[string]any
	if err := json.Unmarshal([]byte(styledBy), &blob); err != nil {
		return nil
	}
	options, _ := blob[domain.StyleClassSentinel].(map[string]any)
	return options
}

// flattenMetadata merges body property values into one flat term map.
// Resource links stored under rdf:value surface under oa:hasBody,
// expanded for the client; the target's structural properties (source,
// type marker, format, wkt, style class) are surfaced elsewhere and never
// appear here.
func (uc *AnnotationUseCase) flattenMetadata(ctx context.Context, ann *domain.Annotation) map[string]any {
	metadata := make(map[string]any)

	for _, body := range ann.Bodies {
		if body.Purpose != "" {
			appendMetadata(metadata, domain.TermHasPurpose, body.Purpose)
		}
		for _, value := range body.Values {
			if value.Term == domain.TermRDFValue && value.Type == domain.TypeResourceLink {
				link, ok := uc.resourceLink(ctx, value.ResourceID)
				if !ok {
					continue
				}
				appendMetadata(metadata, domain.TermHasBody, link)
				continue
			}
			appendMetadata(metadata, value.Term, metadataValue(value))
		}
	}

	return metadata
}

func (uc *AnnotationUseCase) resourceLink(ctx context.Context, resourceID int64) (domain.ResourceLinkView, bool) {
	resource, err := uc.resources.GetResource(ctx, resourceID)
	if err != nil {
		uc.logger.Warn("Linked resource unreadable, dropped from view",
			zap.Int64("resource_id", resourceID),
			zap.Error(err),
		)
		return domain.ResourceLinkView{}, false
	}
	return domain.ResourceLinkView{
		ID:        resource.ID,
		Title:     resource.Title,
		URL:       resource.URL,
		Thumbnail: resource.Thumbnail,
	}, true
}

// metadataValue renders one property value for the flat map: URI-carrying
// values keep both the raw text and the uri, plain values collapse to a
// string.
func metadataValue(value domain.PropertyValue) any {
	if value.URI != "" && (value.Type == domain.TypeURI || value.Type == domain.TypeSuggest) {
		return map[string]any{
			"value": value.Value,
			"uri":   value.URI,
		}
	}
	return value.Value
}

// appendMetadata sets a term's value, promoting to an array on repeats.
func appendMetadata(metadata map[string]any, term string, value any) {
	existing, ok := metadata[term]
	if !ok {
		metadata[term] = value
		return
	}
	if list, ok := existing.([]any); ok {
		metadata[term] = append(list, value)
		return
	}
	metadata[term] = []any{existing, value}
}
