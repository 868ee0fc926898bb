package gsa

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	path   string
}

type fakeTransport struct {
	baseURLs []string
	calls    []recordedCall
	body     string
	err      error
}

func (f *fakeTransport) factory(baseURL string) Transport {
	f.baseURLs = append(f.baseURLs, baseURL)
	return f
}

func (f *fakeTransport) Get(ctx context.Context, path string) (*HTTPResponse, error) {
	return f.respond(http.MethodGet, path)
}

func (f *fakeTransport) Post(ctx context.Context, path string) (*HTTPResponse, error) {
	return f.respond(http.MethodPost, path)
}

func (f *fakeTransport) respond(method, path string) (*HTTPResponse, error) {
	f.calls = append(f.calls, recordedCall{method: method, path: path})
	if f.err != nil {
		return nil, f.err
	}
	return &HTTPResponse{StatusCode: http.StatusOK, Body: []byte(f.body)}, nil
}

func TestSearchMissingBaseURLMakesNoRequest(t *testing.T) {
	ft := &fakeTransport{}
	client := NewClient(WithTransport(ft.factory))

	_, err := client.Search(context.Background(), Params{"search_term": "cats"})
	require.ErrorIs(t, err, ErrMissingBaseURL)

	_, err = client.Suggest(context.Background(), Params{"search_term": "cats"})
	require.ErrorIs(t, err, ErrMissingBaseURL)

	require.Empty(t, ft.calls)
	require.Empty(t, ft.baseURLs)
}

func TestSearchJSON(t *testing.T) {
	ft := &fakeTransport{body: `{"clusters":[{"label":"cats"}]}`}
	client := NewClient(WithTransport(ft.factory))

	resp, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa", "search_term": "cats"})
	require.NoError(t, err)
	require.Equal(t, KindJSON, resp.Kind)
	require.Equal(t, []string{"http://gsa"}, ft.baseURLs)
	require.Len(t, ft.calls, 1)
	require.Equal(t, http.MethodPost, ft.calls[0].method)
	require.Contains(t, ft.calls[0].path, "/cluster?q=cats&coutput=json")

	payload, ok := resp.JSON.(map[string]any)
	require.True(t, ok)
	require.Contains(t, payload, "clusters")
}

func TestSearchJSONEmptyBody(t *testing.T) {
	for _, body := range []string{"", "  ", "{}", "null", "[]"} {
		ft := &fakeTransport{body: body}
		client := NewClient(WithTransport(ft.factory))

		resp, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa"})
		require.NoError(t, err)
		require.Equal(t, map[string]any{}, resp.JSON, "body %q", body)
	}
}

func TestSearchJSONDecodeError(t *testing.T) {
	ft := &fakeTransport{body: `{"broken"`}
	client := NewClient(WithTransport(ft.factory))

	_, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa"})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDecode)
}

func TestSearchXML(t *testing.T) {
	ft := &fakeTransport{body: minimalXML}
	client := NewClient(WithTransport(ft.factory))

	resp, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa", "search_term": "cats", "output": "xml"})
	require.NoError(t, err)
	require.Equal(t, KindXML, resp.Kind)
	require.NotNil(t, resp.Result)
	require.Equal(t, "1", resp.Result.TotalResults)

	require.Len(t, ft.calls, 1)
	require.Equal(t, http.MethodGet, ft.calls[0].method)
	require.Equal(t, "/search?q=cats&output=xml&client=default_frontend&start=0&num=10&filter=0", ft.calls[0].path)
}

func TestSearchXMLCacheShortcut(t *testing.T) {
	ft := &fakeTransport{body: "<html><title>cached</title></html>"}
	client := NewClient(WithTransport(ft.factory))

	resp, err := client.Search(context.Background(), Params{
		"gsa_url":     "http://gsa",
		"search_term": "cache:abc:http://example.com/",
		"output":      "xml",
	})
	require.NoError(t, err)
	require.Equal(t, KindCache, resp.Kind)
	require.Nil(t, resp.Result)
	require.NotNil(t, resp.CachedPage)
	require.Equal(t, "<html><title>cached</title></html>", resp.CachedPage.Body)

	require.Len(t, ft.calls, 1)
	require.Equal(t, http.MethodGet, ft.calls[0].method)
	require.Equal(t,
		"/search?q=cache%3Aabc%3Ahttp%3A%2F%2Fexample.com%2F&output=xml&client=default_frontend&start=0&num=10&filter=0&proxystylesheet=my_frontend",
		ft.calls[0].path)
	require.Equal(t, ft.calls[0].path, resp.CachedPage.URL)
}

func TestSearchUnsupportedOutput(t *testing.T) {
	ft := &fakeTransport{}
	client := NewClient(WithTransport(ft.factory))

	_, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa", "output": "csv"})
	require.ErrorIs(t, err, ErrUnsupportedOutput)
	require.True(t, IsConfigError(err))
	require.Empty(t, ft.calls)
}

func TestSearchTransportErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	ft := &fakeTransport{err: boom}
	client := NewClient(WithTransport(ft.factory))

	_, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa"})
	require.ErrorIs(t, err, boom)
}

func TestSearchRemembersPreviousOptions(t *testing.T) {
	ft := &fakeTransport{body: "{}"}
	client := NewClient(WithTransport(ft.factory))

	_, err := client.Search(context.Background(), Params{"gsa_url": "http://gsa", "client": "intranet", "site": "docs"})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), Params{"search_term": "second"})
	require.NoError(t, err)

	require.Equal(t, "intranet", client.SearchDefaults().Client)
	require.Equal(t, []string{"http://gsa", "http://gsa"}, ft.baseURLs)
	require.Contains(t, ft.calls[1].path, "client=intranet")
	require.Contains(t, ft.calls[1].path, "site=docs")

	client.Reset()
	require.Equal(t, DefaultSearchOptions(), client.SearchDefaults())
}

func TestSearchWithLeavesStoredOptions(t *testing.T) {
	ft := &fakeTransport{body: "{}"}
	client := NewClient(WithTransport(ft.factory))

	opts := DefaultSearchOptions()
	opts.BaseURL = "http://gsa"
	_, err := client.SearchWith(context.Background(), opts)
	require.NoError(t, err)
	require.Empty(t, client.SearchDefaults().BaseURL)
}

func TestSuggestFormats(t *testing.T) {
	ft := &fakeTransport{body: `{"results":[{"name":"cats"}]}`}
	client := NewClient(WithTransport(ft.factory))

	rich, err := client.Suggest(context.Background(), Params{"gsa_url": "http://gsa", "search_term": "ca"})
	require.NoError(t, err)
	require.Equal(t, FormatRich, rich.Format)
	require.Equal(t, `{"results":[{"name":"cats"}]}`, rich.Body)
	require.False(t, rich.Empty())

	openSearch, err := client.Suggest(context.Background(), Params{"format": "os"})
	require.NoError(t, err)
	require.Equal(t, FormatOS, openSearch.Format)

	require.Len(t, ft.calls, 2)
	require.Equal(t, http.MethodPost, ft.calls[0].method)
	require.Contains(t, ft.calls[0].path, "format=rich")
	require.Contains(t, ft.calls[1].path, "q=ca&")
	require.Contains(t, ft.calls[1].path, "format=os")
}

func TestSuggestEmptyAndUnsupported(t *testing.T) {
	ft := &fakeTransport{}
	client := NewClient(WithTransport(ft.factory))

	s, err := client.Suggest(context.Background(), Params{"gsa_url": "http://gsa"})
	require.NoError(t, err)
	require.True(t, s.Empty())

	_, err = client.Suggest(context.Background(), Params{"format": "atom"})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Len(t, ft.calls, 1)
}

type countingObserver struct {
	endpoints []string
	statuses  []int
}

func (o *countingObserver) ObserveRequest(endpoint, method string, statusCode int, duration time.Duration, err error) {
	o.endpoints = append(o.endpoints, endpoint)
	o.statuses = append(o.statuses, statusCode)
}

func TestClientOverHTTP(t *testing.T) {
	var gotMethod, gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, minimalXML)
	}))
	defer server.Close()

	observer := &countingObserver{}
	client := NewClient(WithUserAgent("gsa-test"), WithObserver(observer), WithTimeout(time.Second))

	resp, err := client.Search(context.Background(), Params{"gsa_url": server.URL + "/", "search_term": "cats & dogs", "output": "xml"})
	require.NoError(t, err)
	require.Equal(t, KindXML, resp.Kind)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "q=cats%20%26%20dogs&output=xml&client=default_frontend&start=0&num=10&filter=0", gotQuery)
	assert.Equal(t, "gsa-test", gotUA)
	assert.Equal(t, []string{"/search"}, observer.endpoints)
	assert.Equal(t, []int{http.StatusOK}, observer.statuses)
}

func TestHTTPTransportIgnoresStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "busy")
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, 0)
	resp, err := transport.Post(context.Background(), "/suggest?q=a")
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "busy", string(resp.Body))
}

func TestHTTPTransportNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPTransport(url, time.Second).Get(context.Background(), "/search?q=a")
	require.Error(t, err)
}

func TestPackageLevelSearchUsesSharedDefaults(t *testing.T) {
	ft := &fakeTransport{body: "{}"}
	shared := DefaultClient()
	original := shared.newTransport
	shared.newTransport = ft.factory
	t.Cleanup(func() {
		shared.newTransport = original
		shared.Reset()
	})

	_, err := Search(context.Background(), Params{"gsa_url": "http://shared"})
	require.NoError(t, err)
	_, err = Search(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"http://shared", "http://shared"}, ft.baseURLs)

	_, err = Suggest(context.Background(), Params{"gsa_url": "http://shared", "search_term": "x"})
	require.NoError(t, err)
}
