package domain

import "strings"

// UIType is the inferred client form control for a template property.
type UIType string

const (
	UITextarea     UIType = "textarea"
	UISelect       UIType = "select"
	UIURI          UIType = "uri"
	UIResource     UIType = "resource"
	UIValueSuggest UIType = "valuesuggest"
)

// Raw template data type prefixes, as stored by the property catalog.
const (
	DataTypeResource     = "resource"
	DataTypeResourceItem = "resource:item"
	DataTypeURI          = "uri"

	dataTypeCustomVocabPrefix  = "customvocab:"
	dataTypeValueSuggestPrefix = "valuesuggest"
)

// Resource-link subtypes that the annotation editor cannot represent.
const (
	DataTypeResourceItemSet = "resource:itemset"
	DataTypeResourceMedia   = "resource:media"
)

// ValueTypeOf folds a raw data type string into the closed ValueType set.
// Unknown or empty types are literals.
func ValueTypeOf(dataType string) ValueType {
	switch {
	case dataType == DataTypeResource, strings.HasPrefix(dataType, DataTypeResource+":"):
		return TypeResourceLink
	case dataType == DataTypeURI:
		return TypeURI
	case strings.HasPrefix(dataType, dataTypeCustomVocabPrefix):
		return TypeVocab
	case strings.HasPrefix(dataType, dataTypeValueSuggestPrefix):
		return TypeSuggest
	default:
		return TypeLiteral
	}
}

// UITypeOf maps a raw data type string to its inferred form control.
func UITypeOf(dataType string) UIType {
	switch ValueTypeOf(dataType) {
	case TypeResourceLink:
		return UIResource
	case TypeURI:
		return UIURI
	case TypeVocab:
		return UISelect
	case TypeSuggest:
		return UIValueSuggest
	default:
		return UITextarea
	}
}

// CustomVocabRef extracts the vocabulary reference from a customvocab data
// type ("customvocab:12" -> "12").
func CustomVocabRef(dataType string) string {
	return strings.TrimPrefix(dataType, dataTypeCustomVocabPrefix)
}

// Template is the full property template as configured in the catalog.
type Template struct {
	ID         int64              `json:"id" db:"id"`
	Label      string             `json:"label" db:"label"`
	Properties []TemplateProperty `json:"properties"`
}

// TemplateProperty is one configured property row, in template order.
type TemplateProperty struct {
	PropertyID int64  `json:"property_id" db:"property_id"`
	Term       string `json:"term" db:"term"`
	Label      string `json:"label" db:"label"`
	Comment    string `json:"comment,omitempty" db:"comment"`
	DataType   string `json:"data_type" db:"data_type"`
	Required   bool   `json:"required" db:"is_required"`
	Position   int    `json:"-" db:"position"`
}

// SchemaProperty is the compact, client-facing projection of one template
// property.
type SchemaProperty struct {
	Term           string   `json:"term"`
	Label          string   `json:"label"`
	Comment        string   `json:"comment,omitempty"`
	Type           UIType   `json:"type"`
	Required       bool     `json:"required"`
	ValueOptions   []string `json:"value_options,omitempty"`
	SuggestService string   `json:"suggest_service,omitempty"`
}

// ShortTemplateSchema is the compacted schema the annotation editor renders
// from. Invariant: the oa:hasBody property, if present, is the only one with
// type "resource"; templates violating that are rejected whole.
type ShortTemplateSchema struct {
	TemplateID int64            `json:"template_id"`
	Label      string           `json:"label"`
	Properties []SchemaProperty `json:"properties"`
}

// Property returns the schema property for a term, or nil.
func (s *ShortTemplateSchema) Property(term string) *SchemaProperty {
	for i := range s.Properties {
		if s.Properties[i].Term == term {
			return &s.Properties[i]
		}
	}
	return nil
}

// CustomVocab is a user-defined vocabulary referenced by select fields.
type CustomVocab struct {
	ID    int64    `json:"id" db:"id"`
	Label string   `json:"label" db:"label"`
	Terms []string `json:"terms"`
}
