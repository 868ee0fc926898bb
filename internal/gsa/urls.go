package gsa

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	clusterPath = "/cluster"
	searchPath  = "/search"
	suggestPath = "/suggest"

	cacheStylesheet = "my_frontend"
)

// query renders key=value pairs in insertion order. url.Values sorts keys,
// and GSA parameter order is part of the contract.
type query struct {
	b strings.Builder
}

func (q *query) add(key, value string) *query {
	if q.b.Len() > 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(key)
	q.b.WriteByte('=')
	q.b.WriteString(escape(value))
	return q
}

func (q *query) addInt(key string, value int) *query {
	return q.add(key, strconv.Itoa(value))
}

func (q *query) String() string {
	return q.b.String()
}

// escape percent-encodes a single query value. Spaces become %20 so the
// literal "+" stays available as a separator inside cache queries.
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// JSONSearchURL renders the /cluster request path for json output.
func JSONSearchURL(opts SearchOptions) string {
	q := &query{}
	q.add("q", opts.SearchTerm).
		add("coutput", "json").
		add("access", opts.Access).
		add("output", "xml_no_dtd").
		add("client", opts.Client).
		add("proxystylesheet", opts.ProxyStylesheet).
		add("site", opts.Site).
		addInt("start", opts.Start).
		addInt("num", opts.Num).
		add("requiredfields", opts.RequiredFields)
	return clusterPath + "?" + q.String()
}

// XMLSearchURL renders the /search request path for xml output.
func XMLSearchURL(opts SearchOptions) string {
	q := &query{}
	q.add("q", opts.SearchTerm).
		add("output", "xml").
		add("client", opts.Client).
		addInt("start", opts.Start).
		addInt("num", opts.Num).
		add("filter", "0")
	return searchPath + "?" + q.String()
}

// RichSuggestURL renders the /suggest request path for the rich format.
func RichSuggestURL(opts SuggestOptions) string {
	return suggestURL(opts, FormatRich)
}

// OpenSearchSuggestURL renders the /suggest request path for the
// OpenSearch format.
func OpenSearchSuggestURL(opts SuggestOptions) string {
	return suggestURL(opts, FormatOS)
}

func suggestURL(opts SuggestOptions, format SuggestFormat) string {
	q := &query{}
	q.add("q", opts.SearchTerm).
		addInt("max", opts.Max).
		add("site", opts.Site).
		add("client", opts.Client).
		add("access", "p").
		add("format", string(format))
	return suggestPath + "?" + q.String()
}

// cacheRequestURL appends the cache stylesheet to an xml search path.
func cacheRequestURL(path string) string {
	return path + "&proxystylesheet=" + cacheStylesheet
}

// cacheLinkURL builds the link that fetches a result's cached snapshot.
func cacheLinkURL(base, cid, link string, params EchoedParams) string {
	var b strings.Builder
	b.WriteString(trimSlash(base))
	b.WriteString(searchPath)
	b.WriteString("?q=")
	b.WriteString(escape("cache:" + cid + ":" + link))
	b.WriteByte('+')
	b.WriteString(escape(params.Query))
	q := &query{}
	q.add("site", params.Site).
		add("client", params.Client).
		add("output", params.Output).
		add("proxystylesheet", cacheStylesheet)
	b.WriteByte('&')
	b.WriteString(q.String())
	return b.String()
}

// siteSearchURL builds the "more results from host" link.
func siteSearchURL(root, host string, params EchoedParams) string {
	q := &query{}
	q.add("q", params.Query).
		add("site", params.Site).
		add("client", params.Client).
		add("output", params.Output).
		add("as_sitesearch", host)
	return trimSlash(root) + searchPath + "?" + q.String()
}

func trimSlash(value string) string {
	return strings.TrimSuffix(value, "/")
}
