package gsa

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Output selects the search endpoint.
type Output string

const (
	OutputJSON Output = "json"
	OutputXML  Output = "xml"
)

// SuggestFormat selects the autosuggest response shape.
type SuggestFormat string

const (
	FormatRich SuggestFormat = "rich"
	FormatOS   SuggestFormat = "os"
)

const (
	defaultAccess = "p"
	defaultStart  = 0
	defaultNum    = 10
	defaultMax    = 10
)

// Params is a partial option mapping. Keys follow the GSA option names
// (gsa_url, search_term, output, start, ...). Unknown keys are ignored.
type Params map[string]any

// SearchOptions is the merged option set for a search request.
type SearchOptions struct {
	BaseURL         string `mapstructure:"gsa_url" json:"gsa_url"`
	SearchTerm      string `mapstructure:"search_term" json:"search_term"`
	Output          Output `mapstructure:"output" json:"output"`
	Access          string `mapstructure:"access" json:"access"`
	Client          string `mapstructure:"client" json:"client"`
	ProxyStylesheet string `mapstructure:"proxystylesheet" json:"proxystylesheet"`
	Site            string `mapstructure:"site" json:"site"`
	Start           int    `mapstructure:"start" json:"start"`
	Num             int    `mapstructure:"num" json:"num"`
	RequiredFields  string `mapstructure:"requiredfields" json:"requiredfields"`
}

// SuggestOptions is the merged option set for an autosuggest request.
type SuggestOptions struct {
	BaseURL    string        `mapstructure:"gsa_url" json:"gsa_url"`
	SearchTerm string        `mapstructure:"search_term" json:"search_term"`
	Max        int           `mapstructure:"max" json:"max"`
	Access     string        `mapstructure:"access" json:"access"`
	Client     string        `mapstructure:"client" json:"client"`
	Site       string        `mapstructure:"site" json:"site"`
	Format     SuggestFormat `mapstructure:"format" json:"format"`
}

// DefaultSearchOptions returns the documented search defaults. BaseURL is
// empty and must be supplied before any request.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Output:          OutputJSON,
		Access:          defaultAccess,
		Client:          "default_frontend",
		ProxyStylesheet: "default_frontend",
		Site:            "default_collection",
		Start:           defaultStart,
		Num:             defaultNum,
	}
}

// DefaultSuggestOptions returns the documented autosuggest defaults.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		Max:    defaultMax,
		Access: defaultAccess,
		Client: "default_frontend",
		Site:   "default_collection",
		Format: FormatRich,
	}
}

// MergeSearchOptions overlays params onto base and applies validation in order:
// base URL required, access coerced to "p", start and num coerced to their
// defaults when they are not usable integers. base is not modified.
func MergeSearchOptions(base SearchOptions, params Params) (SearchOptions, error) {
	merged := base
	rest, ints := splitIntParams(params, "start", "num")
	if err := decodeParams(rest, &merged); err != nil {
		return base, err
	}
	if v, ok := ints["start"]; ok {
		merged.Start = CoerceInt(v, defaultStart)
	}
	if v, ok := ints["num"]; ok {
		merged.Num = CoerceInt(v, defaultNum)
	}

	if strings.TrimSpace(merged.BaseURL) == "" {
		return merged, ErrMissingBaseURL
	}
	merged.Access = normalizeAccess(merged.Access)
	if merged.Start < 0 {
		merged.Start = defaultStart
	}
	if merged.Num <= 0 {
		merged.Num = defaultNum
	}
	return merged, nil
}

// MergeSuggestOptions overlays params onto base. Only the base URL is
// validated; max falls back to 10 when it is not a positive integer.
func MergeSuggestOptions(base SuggestOptions, params Params) (SuggestOptions, error) {
	merged := base
	rest, ints := splitIntParams(params, "max")
	if err := decodeParams(rest, &merged); err != nil {
		return base, err
	}
	if v, ok := ints["max"]; ok {
		merged.Max = CoerceInt(v, defaultMax)
	}

	if strings.TrimSpace(merged.BaseURL) == "" {
		return merged, ErrMissingBaseURL
	}
	if merged.Max <= 0 {
		merged.Max = defaultMax
	}
	return merged, nil
}

// CoerceInt converts value to an int, returning fallback when value is not
// an integer. Integral floats and base-10 strings are accepted.
func CoerceInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		if v > uint64(math.MaxInt) {
			return fallback
		}
		return int(v)
	case float32:
		return coerceFloat(float64(v), fallback)
	case float64:
		return coerceFloat(v, fallback)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return n
	case fmt.Stringer:
		return CoerceInt(v.String(), fallback)
	default:
		return fallback
	}
}

func coerceFloat(v float64, fallback int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return fallback
	}
	return int(v)
}

func normalizeAccess(access string) string {
	switch access {
	case "p", "s", "a":
		return access
	default:
		return defaultAccess
	}
}

// splitIntParams separates keys that go through CoerceInt from the ones
// handed to mapstructure, so a bad integer never fails the merge.
func splitIntParams(params Params, keys ...string) (map[string]any, map[string]any) {
	rest := make(map[string]any, len(params))
	ints := make(map[string]any, len(keys))
	for k, v := range params {
		rest[k] = v
	}
	for _, key := range keys {
		if v, ok := rest[key]; ok {
			ints[key] = v
			delete(rest, key)
		}
	}
	return rest, ints
}

func decodeParams(input map[string]any, target any) error {
	if len(input) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return nil
}
