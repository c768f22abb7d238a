package dto

import "github.com/annotation-microservice/internal/domain"

// GeometriesResponse is the payload of the geometries listing.
type GeometriesResponse struct {
	ResourceID int64                              `json:"resource_id"`
	Geometries []*domain.SimplifiedAnnotationView `json:"geometries"`
}

// AnnotateResponse is the payload of a create or full-replace update.
type AnnotateResponse struct {
	ID         int64                            `json:"id"`
	ResourceID int64                            `json:"resource_id"`
	Annotation *domain.SimplifiedAnnotationView `json:"annotation"`
}

// SearchResponse is the payload of a spatial search.
type SearchResponse struct {
	Annotations []*domain.SimplifiedAnnotationView `json:"annotations"`
	Total       int                                `json:"total"`
}

// SuggestResponse relays autocomplete suggestions.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion is one autocomplete hit from the value-suggest service.
type Suggestion struct {
	Value string `json:"value"`
	URI   string `json:"uri,omitempty"`
	Info  string `json:"info,omitempty"`
}
