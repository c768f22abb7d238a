package domain

import "time"

// Fixed terms and markers of the Web Annotation mapping. An annotation is
// only recognized by this service when its target carries FormatWKT.
const (
	TermHasBody    = "oa:hasBody"
	TermHasPurpose = "oa:hasPurpose"
	TermRDFValue   = "rdf:value"
	TermStyleClass = "oa:styleClass"

	TargetRDFType = "oa:Selector"
	FormatWKT     = "application/wkt"

	// StyleClassSentinel keys the serialized style blob and marks targets
	// that carry client-side styling.
	StyleClassSentinel = "leaflet-interactive"

	// GeometryKeyPixel / GeometryKeyGeographic distinguish how the target
	// WKT is to be interpreted: pixel space when the target points at a
	// specific media, lat/long otherwise.
	GeometryKeyPixel      = "geometry"
	GeometryKeyGeographic = "geography"
)

// ValueType is the closed set of body value encodings. Raw template data
// type strings are folded into it by ValueTypeOf.
type ValueType int

const (
	TypeLiteral ValueType = iota
	TypeURI
	TypeResourceLink
	TypeSuggest
	TypeVocab
)

func (t ValueType) String() string {
	switch t {
	case TypeURI:
		return "uri"
	case TypeResourceLink:
		return "resource"
	case TypeSuggest:
		return "valuesuggest"
	case TypeVocab:
		return "customvocab"
	default:
		return "literal"
	}
}

// PropertyValue is a single typed value attached to a body or target,
// keyed by its property term.
type PropertyValue struct {
	Term       string    `json:"term"`
	Type       ValueType `json:"type"`
	Value      string    `json:"value,omitempty"`
	Lang       string    `json:"lang,omitempty"`
	URI        string    `json:"uri,omitempty"`
	ResourceID int64     `json:"resource_id,omitempty"`
}

// Body is one annotation body. Resource-link bodies carry exactly one
// rdf:value resource reference; the primary descriptive body carries the
// literal/URI/vocabulary values plus an optional purpose marker.
type Body struct {
	ID      int64           `json:"id" db:"id"`
	Purpose string          `json:"purpose,omitempty" db:"purpose"`
	Values  []PropertyValue `json:"values"`
}

// ResourceRef returns the linked resource id of a resource-link body, or 0.
func (b Body) ResourceRef() int64 {
	for _, v := range b.Values {
		if v.Term == TermRDFValue && v.Type == TypeResourceLink {
			return v.ResourceID
		}
	}
	return 0
}

// Target is what the annotation is anchored to: a geometry drawn on a
// resource, optionally on one specific media of that resource.
type Target struct {
	ID          int64  `json:"id" db:"id"`
	ResourceID  int64  `json:"resource_id" db:"resource_id"`
	MediaID     int64  `json:"media_id,omitempty" db:"media_id"`
	RDFType     string `json:"rdf_type" db:"rdf_type"`
	Format      string `json:"format" db:"format"`
	GeometryKey string `json:"geometry_key" db:"geometry_key"`
	WKT         string `json:"wkt" db:"wkt"`
	StyleClass  string `json:"style_class,omitempty" db:"style_class"`
}

// Annotation is the persisted record: one target, zero or more bodies.
// Updates replace the whole target/body set, never patch fields.
type Annotation struct {
	ID         int64     `json:"id" db:"id"`
	OwnerID    int64     `json:"owner_id" db:"owner_id"`
	OwnerName  string    `json:"owner_name" db:"owner_name"`
	IsPublic   bool      `json:"is_public" db:"is_public"`
	TemplateID int64     `json:"template_id,omitempty" db:"template_id"`
	StyledBy   string    `json:"styled_by,omitempty" db:"styled_by"`
	Target     Target    `json:"target"`
	Bodies     []Body    `json:"bodies,omitempty"`
	Created    time.Time `json:"created" db:"created_at"`
	Modified   time.Time `json:"modified" db:"updated_at"`
}

// PrimaryBody returns the descriptive body (the one that is not a bare
// resource link), or nil.
func (a *Annotation) PrimaryBody() *Body {
	for i := range a.Bodies {
		if a.Bodies[i].ResourceRef() == 0 {
			return &a.Bodies[i]
		}
	}
	return nil
}

// Resource is the minimal view of a CMS resource this core needs.
type Resource struct {
	ID        int64  `json:"id" db:"id"`
	Kind      string `json:"kind" db:"kind"`
	Title     string `json:"title" db:"title"`
	URL       string `json:"url" db:"url"`
	Thumbnail string `json:"thumbnail,omitempty" db:"thumbnail"`
}

// Media is a sub-part of a resource, e.g. one image of a multi-image item.
type Media struct {
	ID         int64  `json:"id" db:"id"`
	ResourceID int64  `json:"resource_id" db:"resource_id"`
	Title      string `json:"title" db:"title"`
}
