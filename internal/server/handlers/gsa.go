package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/gsaclient/gsa/internal/gsa"
	"github.com/gsaclient/gsa/internal/metrics"
	"github.com/gsaclient/gsa/internal/observability"
)

// Backend is the part of gsa.Client the proxy uses. Only the pure
// SearchWith/SuggestWith paths are used so requests never share state.
type Backend interface {
	SearchWith(ctx context.Context, opts gsa.SearchOptions) (*gsa.SearchResponse, error)
	SuggestWith(ctx context.Context, opts gsa.SuggestOptions) (*gsa.Suggestion, error)
}

// GSAHandler exposes search and autosuggest as JSON endpoints.
type GSAHandler struct {
	backend         Backend
	searchDefaults  gsa.SearchOptions
	suggestDefaults gsa.SuggestOptions
}

func NewGSAHandler(backend Backend, search gsa.SearchOptions, suggest gsa.SuggestOptions) *GSAHandler {
	return &GSAHandler{
		backend:         backend,
		searchDefaults:  search,
		suggestDefaults: suggest,
	}
}

// query parameter -> option key
var (
	searchQueryKeys = map[string]string{
		"q":               "search_term",
		"output":          "output",
		"access":          "access",
		"client":          "client",
		"site":            "site",
		"proxystylesheet": "proxystylesheet",
		"start":           "start",
		"num":             "num",
		"requiredfields":  "requiredfields",
	}
	suggestQueryKeys = map[string]string{
		"q":      "search_term",
		"max":    "max",
		"site":   "site",
		"client": "client",
		"access": "access",
		"format": "format",
	}
)

// paramsFromQuery copies only the query parameters that are present, so
// absent ones keep the configured default.
func paramsFromQuery(r *http.Request, keys map[string]string) gsa.Params {
	values := r.URL.Query()
	params := gsa.Params{}
	for queryKey, optionKey := range keys {
		if _, ok := values[queryKey]; ok {
			params[optionKey] = values.Get(queryKey)
		}
	}
	return params
}

// Search handles GET /v1/search.
func (h *GSAHandler) Search(w http.ResponseWriter, r *http.Request) {
	opts, err := gsa.MergeSearchOptions(h.searchDefaults, paramsFromQuery(r, searchQueryKeys))
	if err != nil {
		metrics.RecordOperation("search", false)
		respondWithError(w, r, err)
		return
	}

	resp, err := h.backend.SearchWith(r.Context(), opts)
	if err != nil {
		metrics.RecordOperation("search", false)
		respondWithError(w, r, err)
		return
	}
	metrics.RecordOperation("search", true)

	if observability.ServerLogger != nil {
		observability.ServerLogger.Debug("Search proxied",
			zap.String("output", string(opts.Output)),
			zap.String("kind", string(resp.Kind)),
			zap.Int("start", opts.Start),
			zap.Int("num", opts.Num))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggest handles GET /v1/suggest.
func (h *GSAHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	opts, err := gsa.MergeSuggestOptions(h.suggestDefaults, paramsFromQuery(r, suggestQueryKeys))
	if err != nil {
		metrics.RecordOperation("suggest", false)
		respondWithError(w, r, err)
		return
	}

	suggestion, err := h.backend.SuggestWith(r.Context(), opts)
	if err != nil {
		metrics.RecordOperation("suggest", false)
		respondWithError(w, r, err)
		return
	}
	metrics.RecordOperation("suggest", true)
	writeJSON(w, http.StatusOK, suggestion)
}
