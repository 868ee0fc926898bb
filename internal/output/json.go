package output

import (
	"encoding/json"

	"github.com/gsaclient/gsa/internal/gsa"
)

// JSONFormatter renders values as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatSearch renders the payload of a search response. Raw json output is
// passed through as decoded; xml output renders the structured result.
func (f *JSONFormatter) FormatSearch(resp *gsa.SearchResponse) (string, error) {
	if resp == nil {
		return "", nil
	}
	return f.marshal(searchPayload(resp))
}

// FormatSuggestion renders the suggestion body. A body that is itself JSON
// is embedded as-is.
func (f *JSONFormatter) FormatSuggestion(s *gsa.Suggestion) (string, error) {
	if s.Empty() {
		return "", nil
	}
	return f.marshal(suggestionPayload(s))
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func searchPayload(resp *gsa.SearchResponse) any {
	switch resp.Kind {
	case gsa.KindJSON:
		return resp.JSON
	case gsa.KindXML:
		return resp.Result
	default:
		return resp.CachedPage
	}
}

func suggestionPayload(s *gsa.Suggestion) any {
	if json.Valid([]byte(s.Body)) {
		return struct {
			Format gsa.SuggestFormat `json:"format"`
			Body   json.RawMessage   `json:"body"`
		}{s.Format, json.RawMessage(s.Body)}
	}
	return s
}
