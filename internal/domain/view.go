package domain

import "time"

// ResourceLinkView expands a resource-link value for client consumption.
type ResourceLinkView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// RightsView carries the per-actor permission flags of one annotation.
type RightsView struct {
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// SimplifiedAnnotationView is the flattened projection served to the map
// editor. Built fresh per read, never persisted.
type SimplifiedAnnotationView struct {
	ID         int64          `json:"id"`
	WKT        string         `json:"wkt"`
	MediaID    int64          `json:"media_id,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
	Metadata   map[string]any `json:"metadata"`
	IsPublic   bool           `json:"is_public"`
	OwnerID    int64          `json:"owner_id"`
	OwnerName  string         `json:"owner_name,omitempty"`
	TemplateID int64          `json:"template_id,omitempty"`
	Created    time.Time      `json:"created"`
	Modified   time.Time      `json:"modified"`
	Rights     RightsView     `json:"rights"`
}
