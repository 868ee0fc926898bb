package output

import (
	"fmt"
	"strings"

	"github.com/gsaclient/gsa/internal/gsa"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatSearch(resp *gsa.SearchResponse) (string, error) {
	if resp == nil {
		return "", nil
	}

	var sb strings.Builder
	switch resp.Kind {
	case gsa.KindXML:
		result := resp.Result
		query := result.AllParams.Query
		sb.WriteString(fmt.Sprintf("## Search results for %q\n\n", query))
		sb.WriteString("| # | Title | Date | Size |\n")
		sb.WriteString("|---|-------|------|------|\n")
		for i, r := range result.ActualResults {
			title := escapeMarkdownCell(strings.TrimSpace(resultTitle(r)))
			if r.LinkForTitle != "" {
				title = fmt.Sprintf("[%s](%s)", title, r.LinkForTitle)
			}
			if r.Indented {
				title = "↳ " + title
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				i+1,
				title,
				escapeMarkdownCell(dateOrDash(r.Date)),
				escapeMarkdownCell(valueOrDash(r.Size)),
			))
		}
		sb.WriteString(fmt.Sprintf("\n**%s**\n", summary(result)))
		if result.TopNav != nil && result.TopNav.Next != "" {
			sb.WriteString(fmt.Sprintf("\n[Next page](%s)\n", result.TopNav.Next))
		}

	case gsa.KindJSON:
		sb.WriteString("| Key | Value |\n")
		sb.WriteString("|-----|-------|\n")
		for _, kv := range jsonRows(resp.JSON) {
			sb.WriteString(fmt.Sprintf("| %s | `%s` |\n", escapeMarkdownCell(kv[0]), escapeMarkdownCell(kv[1])))
		}

	default:
		page := resp.CachedPage
		title := pageTitle(page.Body)
		if title == "" {
			title = "Cached page"
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdownCell(title)))
		sb.WriteString(fmt.Sprintf("Source: `%s` (%d bytes)\n", page.URL, len(page.Body)))
	}
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatSuggestion(s *gsa.Suggestion) (string, error) {
	if s.Empty() {
		return "", nil
	}

	terms, ok := suggestionTerms(s)
	if !ok {
		return fmt.Sprintf("```\n%s\n```\n", s.Body), nil
	}

	var sb strings.Builder
	sb.WriteString("| # | Suggestion |\n")
	sb.WriteString("|---|------------|\n")
	for i, term := range terms {
		sb.WriteString(fmt.Sprintf("| %d | %s |\n", i+1, escapeMarkdownCell(term)))
	}
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
