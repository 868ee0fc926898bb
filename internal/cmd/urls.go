package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gsaclient/gsa/internal/gsa"
	"github.com/gsaclient/gsa/internal/output"
)

var urlsCmd = &cobra.Command{
	Use:   "urls [term...]",
	Short: "Print the request URLs without calling the appliance",
	Long: `Merge the configured defaults with the given flags and print the four
endpoint URLs the client would request: JSON search, XML search, rich
suggest and OpenSearch suggest.`,
	RunE: runURLs,
}

func init() {
	rootCmd.AddCommand(urlsCmd)
	registerParamFlags(urlsCmd.Flags(), searchFlagParams)
	registerParamFlags(urlsCmd.Flags(), suggestFlagParams)
	addOutputFlags(urlsCmd)
}

type endpointURL struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Method   string `json:"method" yaml:"method"`
	URL      string `json:"url" yaml:"url"`
}

// endpointURLs merges params onto the configured defaults and returns the
// absolute URL of every endpoint.
func endpointURLs(search gsa.SearchOptions, suggest gsa.SuggestOptions, searchParams, suggestParams gsa.Params) ([]endpointURL, error) {
	searchOpts, err := gsa.MergeSearchOptions(search, searchParams)
	if err != nil {
		return nil, err
	}
	suggestOpts, err := gsa.MergeSuggestOptions(suggest, suggestParams)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(searchOpts.BaseURL, "/")
	return []endpointURL{
		{Endpoint: "search (json)", Method: "POST", URL: base + gsa.JSONSearchURL(searchOpts)},
		{Endpoint: "search (xml)", Method: "GET", URL: base + gsa.XMLSearchURL(searchOpts)},
		{Endpoint: "suggest (rich)", Method: "POST", URL: base + gsa.RichSuggestURL(suggestOpts)},
		{Endpoint: "suggest (os)", Method: "POST", URL: base + gsa.OpenSearchSuggestURL(suggestOpts)},
	}, nil
}

func runURLs(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	urls, err := endpointURLs(cfg.GSA.SearchOptions(), cfg.GSA.SuggestOptions(),
		paramsFromFlags(cmd.Flags(), searchFlagParams, args),
		paramsFromFlags(cmd.Flags(), suggestFlagParams, args))
	if err != nil {
		return err
	}

	rendered, err := renderURLs(urls, format)
	if err != nil {
		return err
	}
	return writeRendered(cmd, rendered)
}

func renderURLs(urls []endpointURL, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(urls, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case output.FormatYAML:
		data, err := yaml.Marshal(urls)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case output.FormatMarkdown:
		var b strings.Builder
		b.WriteString("| Endpoint | Method | URL |\n|---|---|---|\n")
		for _, u := range urls {
			fmt.Fprintf(&b, "| %s | %s | `%s` |\n", u.Endpoint, u.Method, u.URL)
		}
		return b.String(), nil
	default:
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Endpoint", "Method", "URL"})
		for _, u := range urls {
			t.AppendRow(table.Row{u.Endpoint, u.Method, u.URL})
		}
		return t.Render(), nil
	}
}
