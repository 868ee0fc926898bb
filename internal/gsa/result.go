package gsa

import (
	"bytes"
	"encoding/json"
)

// ResponseKind tags which payload a SearchResponse carries.
type ResponseKind string

const (
	KindJSON  ResponseKind = "json"
	KindXML   ResponseKind = "xml"
	KindCache ResponseKind = "cache"
)

// SearchResponse is the outcome of a search call. Exactly one of JSON,
// Result or CachedPage is set, according to Kind.
type SearchResponse struct {
	Kind       ResponseKind  `json:"kind"`
	JSON       any           `json:"json,omitempty"`
	Result     *SearchResult `json:"result,omitempty"`
	CachedPage *CachedPage   `json:"cached_page,omitempty"`
}

// CachedPage is the raw proxy view of a cached document.
type CachedPage struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

// EchoedParams are the request parameters GSA reflects back in PARAM nodes.
type EchoedParams struct {
	Query  string `json:"query,omitempty"`
	Site   string `json:"site,omitempty"`
	Client string `json:"client,omitempty"`
	Output string `json:"output,omitempty"`
	Start  string `json:"start,omitempty"`
}

// TopNav holds the previous/next page links of a result page.
type TopNav struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// MoreResults links to further results from the same host.
type MoreResults struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// Result is one R node of an xml search response.
type Result struct {
	Key          string       `json:"-"`
	Indented     bool         `json:"indented"`
	DisplayLink  string       `json:"display_link,omitempty"`
	LinkForTitle string       `json:"link_for_title,omitempty"`
	Title        string       `json:"title,omitempty"`
	Date         *string      `json:"date,omitempty"`
	Description  string       `json:"description,omitempty"`
	CacheLink    string       `json:"cache_link,omitempty"`
	Size         string       `json:"size,omitempty"`
	MoreResults  *MoreResults `json:"more_results,omitempty"`
}

// ResultSet keeps results in discovery order and marshals as an object
// keyed result_0, result_1, ...
type ResultSet []*Result

// Get returns the result stored under key.
func (s ResultSet) Get(key string) (*Result, bool) {
	for _, r := range s {
		if r.Key == key {
			return r, true
		}
	}
	return nil, false
}

// Keys returns the synthetic keys in discovery order.
func (s ResultSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, r := range s {
		keys = append(keys, r.Key)
	}
	return keys
}

func (s ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SearchResult is the structured form of an xml search response.
type SearchResult struct {
	AllParams     EchoedParams `json:"all_params"`
	Filtered      bool         `json:"filtered"`
	TotalResults  string       `json:"total_results"`
	SearchTime    string       `json:"search_time"`
	From          string       `json:"from,omitempty"`
	To            string       `json:"to,omitempty"`
	TopNav        *TopNav      `json:"top_nav,omitempty"`
	ActualResults ResultSet    `json:"actual_results"`
}

// Suggestion is an undecoded autosuggest payload tagged with its format.
type Suggestion struct {
	Format SuggestFormat `json:"format"`
	Body   string        `json:"body"`
}

// Empty reports whether GSA returned no suggestion content.
func (s *Suggestion) Empty() bool {
	return s == nil || s.Body == ""
}
