package output

import (
	"fmt"
	"strings"

	"github.com/gsaclient/gsa/internal/gsa"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formatter renders search responses and suggestions.
type Formatter interface {
	FormatSearch(resp *gsa.SearchResponse) (string, error)
	FormatSuggestion(s *gsa.Suggestion) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

func summary(result *gsa.SearchResult) string {
	if result.From == "" {
		return fmt.Sprintf("%s results (%ss)", result.TotalResults, result.SearchTime)
	}
	s := fmt.Sprintf("Results %s-%s of about %s (%ss)", result.From, result.To, result.TotalResults, result.SearchTime)
	if result.Filtered {
		s += ", similar results omitted"
	}
	return s
}

func resultTitle(r *gsa.Result) string {
	title := r.Title
	if title == "" {
		title = r.LinkForTitle
	}
	if r.Indented {
		return "  " + title
	}
	return title
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func dateOrDash(date *string) string {
	if date == nil {
		return "-"
	}
	return valueOrDash(*date)
}
