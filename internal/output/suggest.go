package output

import (
	"encoding/json"

	"github.com/gsaclient/gsa/internal/gsa"
)

// suggestionTerms extracts the suggested phrases. The rich format is
// {"results":[{"name":...}]}; the OpenSearch format is [query, [terms...]].
// ok is false when the body matches neither shape.
func suggestionTerms(s *gsa.Suggestion) (terms []string, ok bool) {
	body := []byte(s.Body)

	var rich struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &rich); err == nil && rich.Results != nil {
		for _, r := range rich.Results {
			terms = append(terms, r.Name)
		}
		return terms, true
	}

	var openSearch []json.RawMessage
	if err := json.Unmarshal(body, &openSearch); err == nil && len(openSearch) >= 2 {
		if err := json.Unmarshal(openSearch[1], &terms); err == nil {
			return terms, true
		}
	}
	return nil, false
}
