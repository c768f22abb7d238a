package dto

// AnnotateRequest creates an annotation when ID is absent, otherwise fully
// replaces the existing one. Options mixes style keys with metadata keyed
// by schema property terms; the composer splits them.
type AnnotateRequest struct {
	ID         int64          `json:"id" validate:"omitempty,min=1"`
	ResourceID int64          `json:"resource_id" validate:"required,min=1"`
	MediaID    int64          `json:"media_id" validate:"omitempty,min=1"`
	WKT        string         `json:"wkt"`
	Options    map[string]any `json:"options"`
}

// DeleteAnnotationRequest deletes one annotation by id.
type DeleteAnnotationRequest struct {
	ID int64 `json:"id" validate:"required,min=1"`
}

// GeometriesRequest lists annotations anchored to a resource. MediaID is
// tri-state: absent means all, 0 means only annotations with no media
// association, a positive id means that media only.
type GeometriesRequest struct {
	ResourceID   int64  `json:"resource_id" validate:"required,min=1"`
	MediaID      *int64 `json:"media_id" validate:"omitempty,min=0"`
	AnnotationID int64  `json:"annotation_id" validate:"omitempty,min=1"`
}

// SearchRequest runs a spatial annotation search. Geo accepts a single
// predicate group or a list of groups, in any of the loose raw encodings.
type SearchRequest struct {
	Geo any `json:"geo" validate:"required"`
}

// TemplatesRequest lists the short schemas configured for one annotation
// context.
type TemplatesRequest struct {
	Type string `json:"type" validate:"required,oneof=describe locate"`
}
