package config

import (
	"errors"
	"time"

	"github.com/gsaclient/gsa/internal/gsa"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// SearchOptions returns the configured search defaults as a gsa option set.
// Values are not coerced here; MergeSearchOptions does that per call.
func (g GSAConfig) SearchOptions() gsa.SearchOptions {
	opts := gsa.DefaultSearchOptions()
	opts.BaseURL = g.URL
	if g.Defaults.Output != "" {
		opts.Output = gsa.Output(g.Defaults.Output)
	}
	if g.Defaults.Access != "" {
		opts.Access = g.Defaults.Access
	}
	if g.Defaults.Client != "" {
		opts.Client = g.Defaults.Client
	}
	if g.Defaults.ProxyStylesheet != "" {
		opts.ProxyStylesheet = g.Defaults.ProxyStylesheet
	}
	if g.Defaults.Site != "" {
		opts.Site = g.Defaults.Site
	}
	if g.Defaults.Num != 0 {
		opts.Num = g.Defaults.Num
	}
	opts.RequiredFields = g.Defaults.RequiredFields
	return opts
}

// SuggestOptions returns the configured autosuggest defaults. Site, client
// and access follow the search defaults.
func (g GSAConfig) SuggestOptions() gsa.SuggestOptions {
	search := g.SearchOptions()
	opts := gsa.DefaultSuggestOptions()
	opts.BaseURL = g.URL
	opts.Access = search.Access
	opts.Client = search.Client
	opts.Site = search.Site
	if g.Suggest.Max != 0 {
		opts.Max = g.Suggest.Max
	}
	if g.Suggest.Format != "" {
		opts.Format = gsa.SuggestFormat(g.Suggest.Format)
	}
	return opts
}

// ClientOptions returns the gsa.Client options for the transport settings
// and stored defaults.
func (g GSAConfig) ClientOptions() []gsa.Option {
	opts := []gsa.Option{
		gsa.WithSearchDefaults(g.SearchOptions()),
		gsa.WithSuggestDefaults(g.SuggestOptions()),
		gsa.WithRootURL(g.RootURL),
		gsa.WithUserAgent(g.UserAgent),
	}
	if g.Timeout > time.Duration(0) {
		opts = append(opts, gsa.WithTimeout(g.Timeout))
	}
	return opts
}
