package repository

import "context"

// Suggestion is one autocomplete hit from the external value-suggest
// service.
type Suggestion struct {
	Value string `json:"value"`
	URI   string `json:"uri,omitempty"`
	Info  string `json:"info,omitempty"`
}

// SuggestRepository proxies the external autocomplete service backing
// valuesuggest template properties.
type SuggestRepository interface {
	Suggest(ctx context.Context, service, query string) ([]Suggestion, error)
}
