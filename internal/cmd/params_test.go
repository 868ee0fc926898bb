package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsaclient/gsa/internal/config"
	apperrors "github.com/gsaclient/gsa/internal/errors"
	"github.com/gsaclient/gsa/internal/gsa"
	"github.com/gsaclient/gsa/internal/output"
)

func TestParamsFromFlagsOnlyChanged(t *testing.T) {
	flags := pflag.NewFlagSet("search", pflag.ContinueOnError)
	registerParamFlags(flags, searchFlagParams)
	require.NoError(t, flags.Parse([]string{"--client", "intranet", "--num", "5"}))

	params := paramsFromFlags(flags, searchFlagParams, []string{"annual", "report"})
	assert.Equal(t, gsa.Params{
		"search_term": "annual report",
		"client":      "intranet",
		"num":         5,
	}, params)
}

func TestParamsFromFlagsSuggestFormatKey(t *testing.T) {
	flags := pflag.NewFlagSet("suggest", pflag.ContinueOnError)
	registerParamFlags(flags, suggestFlagParams)
	require.NoError(t, flags.Parse([]string{"--suggest-format", "os", "--max", "0"}))

	params := paramsFromFlags(flags, suggestFlagParams, nil)
	assert.Equal(t, gsa.Params{"format": "os", "max": 0}, params)
}

func TestRegisterParamFlagsSkipsDuplicates(t *testing.T) {
	flags := pflag.NewFlagSet("urls", pflag.ContinueOnError)
	registerParamFlags(flags, searchFlagParams)
	require.NotPanics(t, func() { registerParamFlags(flags, suggestFlagParams) })
	require.NotNil(t, flags.Lookup("max"))
	require.NotNil(t, flags.Lookup("site"))
}

func TestCacheQuery(t *testing.T) {
	assert.Equal(t, "cache:abc:http://x/", cacheQuery([]string{"cache:abc:http://x/"}))
	assert.Equal(t, "cache:abc:http://x/", cacheQuery([]string{"abc:http://x/"}))
}

func TestEndpointURLs(t *testing.T) {
	search := gsa.DefaultSearchOptions()
	search.BaseURL = "http://gsa.example.com/"
	suggest := gsa.DefaultSuggestOptions()
	suggest.BaseURL = search.BaseURL

	urls, err := endpointURLs(search, suggest, gsa.Params{"search_term": "cats", "num": 5}, gsa.Params{"search_term": "cats"})
	require.NoError(t, err)
	require.Len(t, urls, 4)
	assert.Equal(t, "http://gsa.example.com/search?q=cats&output=xml&client=default_frontend&start=0&num=5&filter=0", urls[1].URL)
	assert.Equal(t, "GET", urls[1].Method)
	assert.True(t, strings.HasPrefix(urls[0].URL, "http://gsa.example.com/cluster?q=cats&coutput=json"))
	assert.True(t, strings.HasSuffix(urls[3].URL, "format=os"))
}

func TestEndpointURLsRequiresBaseURL(t *testing.T) {
	_, err := endpointURLs(gsa.DefaultSearchOptions(), gsa.DefaultSuggestOptions(), nil, nil)
	require.ErrorIs(t, err, gsa.ErrMissingBaseURL)
}

func TestRenderURLs(t *testing.T) {
	urls := []endpointURL{{Endpoint: "search (xml)", Method: "GET", URL: "http://gsa/search?q=a"}}

	table, err := renderURLs(urls, output.FormatTable)
	require.NoError(t, err)
	assert.Contains(t, table, "http://gsa/search?q=a")

	js, err := renderURLs(urls, output.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, js, `"method": "GET"`)

	md, err := renderURLs(urls, output.FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, md, "| search (xml) | GET | `http://gsa/search?q=a` |")

	yml, err := renderURLs(urls, output.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, yml, "endpoint: search (xml)")
}

func TestWriteRenderedUsesCommandOutput(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addOutputFlags(cmd)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, writeRendered(cmd, "hello"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestWriteRenderedToFile(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addOutputFlags(cmd)
	path := t.TempDir() + "/nested/out.txt"
	require.NoError(t, cmd.Flags().Set("out", path))

	require.NoError(t, writeRendered(cmd, "saved\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "saved\n", string(data))
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, foundry.ExitConfigInvalid, ExitCodeFor(gsa.ErrMissingBaseURL))
	assert.Equal(t, foundry.ExitConfigInvalid, ExitCodeFor(fmt.Errorf("load: %w", config.ErrInvalid)))
	assert.Equal(t, foundry.ExitConfigInvalid, ExitCodeFor(apperrors.NewConfigInvalidError("bad")))
	assert.Equal(t, foundry.ExitExternalServiceUnavailable, ExitCodeFor(apperrors.WrapExternalService(context.Background(), fmt.Errorf("refused"), "down")))
	assert.Equal(t, foundry.ExitFailure, ExitCodeFor(fmt.Errorf("boom")))
}

func TestWriteVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "2026-01-01")
	var buf bytes.Buffer
	writeVersion(&buf, false)
	assert.Equal(t, "gsa 1.2.3\n", buf.String())

	buf.Reset()
	writeVersion(&buf, true)
	assert.Contains(t, buf.String(), "Commit: abc")
	assert.Contains(t, buf.String(), "Gofulmen:")
}
