package output

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gsaclient/gsa/internal/gsa"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatSearch renders one row per result for xml output, a key/value table
// for raw json output and a one-row summary for a cached page.
func (f *TableFormatter) FormatSearch(resp *gsa.SearchResponse) (string, error) {
	if resp == nil {
		return "", nil
	}

	t := newTable()

	switch resp.Kind {
	case gsa.KindXML:
		result := resp.Result
		t.AppendHeader(table.Row{"#", "Title", "URL", "Date", "Size"})
		for i, r := range result.ActualResults {
			t.AppendRow(table.Row{
				i + 1,
				resultTitle(r),
				valueOrDash(r.LinkForTitle),
				dateOrDash(r.Date),
				valueOrDash(r.Size),
			})
		}
		t.AppendFooter(table.Row{"", summary(result), "", "", ""})
		rendered := t.Render()
		if nav := navigation(result); nav != "" {
			rendered += "\n" + nav
		}
		return rendered, nil

	case gsa.KindJSON:
		t.AppendHeader(table.Row{"Key", "Value"})
		for _, kv := range jsonRows(resp.JSON) {
			t.AppendRow(table.Row{kv[0], kv[1]})
		}
		return t.Render(), nil

	default:
		page := resp.CachedPage
		t.AppendHeader(table.Row{"Cached page", "Title", "Bytes"})
		t.AppendRow(table.Row{page.URL, valueOrDash(pageTitle(page.Body)), strconv.Itoa(len(page.Body))})
		return t.Render(), nil
	}
}

// FormatSuggestion lists the suggested terms, falling back to the raw body
// when it cannot be decoded.
func (f *TableFormatter) FormatSuggestion(s *gsa.Suggestion) (string, error) {
	if s.Empty() {
		return "", nil
	}

	t := newTable()

	terms, ok := suggestionTerms(s)
	if !ok {
		t.AppendHeader(table.Row{"Format", "Body"})
		t.AppendRow(table.Row{string(s.Format), truncate(s.Body, 120)})
		return t.Render(), nil
	}

	t.AppendHeader(table.Row{"#", "Suggestion"})
	for i, term := range terms {
		t.AppendRow(table.Row{i + 1, term})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d suggestions (%s)", len(terms), s.Format)})
	return t.Render(), nil
}

// newTable keeps footers in their original case; headers stay upper-cased.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func navigation(result *gsa.SearchResult) string {
	var out string
	if result.TopNav != nil {
		if result.TopNav.Previous != "" {
			out += "Previous: " + result.TopNav.Previous + "\n"
		}
		if result.TopNav.Next != "" {
			out += "Next: " + result.TopNav.Next + "\n"
		}
	}
	for _, r := range result.ActualResults {
		if r.MoreResults != nil {
			out += r.MoreResults.Text + ": " + r.MoreResults.Link + "\n"
		}
	}
	return out
}
