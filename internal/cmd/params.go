package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/gsaclient/gsa/internal/gsa"
	"github.com/gsaclient/gsa/internal/observability"
)

// A flagParam ties a command-line flag to a gsa option name.
type flagParam struct {
	Flag  string
	Key   string
	Usage string
	Int   bool
}

var searchFlagParams = []flagParam{
	{Flag: "output", Key: "output", Usage: "search endpoint: json (/cluster) or xml (/search)"},
	{Flag: "access", Key: "access", Usage: "access level: p, s or a"},
	{Flag: "client", Key: "client", Usage: "GSA front end"},
	{Flag: "site", Key: "site", Usage: "collection"},
	{Flag: "proxystylesheet", Key: "proxystylesheet", Usage: "proxy stylesheet front end"},
	{Flag: "start", Key: "start", Usage: "result offset", Int: true},
	{Flag: "num", Key: "num", Usage: "results per page", Int: true},
	{Flag: "requiredfields", Key: "requiredfields", Usage: "metadata filter, e.g. author:bob"},
}

var suggestFlagParams = []flagParam{
	{Flag: "max", Key: "max", Usage: "maximum number of suggestions", Int: true},
	{Flag: "site", Key: "site", Usage: "collection"},
	{Flag: "client", Key: "client", Usage: "GSA front end"},
	{Flag: "access", Key: "access", Usage: "access level"},
	{Flag: "suggest-format", Key: "format", Usage: "suggest response format: rich or os"},
}

func registerParamFlags(flags *pflag.FlagSet, specs []flagParam) {
	for _, spec := range specs {
		if flags.Lookup(spec.Flag) != nil {
			continue
		}
		if spec.Int {
			flags.Int(spec.Flag, 0, spec.Usage)
		} else {
			flags.String(spec.Flag, "", spec.Usage)
		}
	}
}

// paramsFromFlags collects the explicitly set flags plus the positional
// search term. Unset flags are left out so the stored defaults apply.
func paramsFromFlags(flags *pflag.FlagSet, specs []flagParam, args []string) gsa.Params {
	params := gsa.Params{}
	if len(args) > 0 {
		params["search_term"] = strings.Join(args, " ")
	}
	for _, spec := range specs {
		if !flags.Changed(spec.Flag) {
			continue
		}
		if spec.Int {
			if v, err := flags.GetInt(spec.Flag); err == nil {
				params[spec.Key] = v
			}
			continue
		}
		if v, err := flags.GetString(spec.Flag); err == nil {
			params[spec.Key] = v
		}
	}
	return params
}

func newClient() (*gsa.Client, error) {
	cfg, err := loadedConfig()
	if err != nil {
		return nil, err
	}
	opts := cfg.GSA.ClientOptions()
	if observability.CLILogger != nil {
		opts = append(opts, gsa.WithLogger(observability.CLILogger))
	}
	return gsa.NewClient(opts...), nil
}
