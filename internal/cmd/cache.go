package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gsaclient/gsa/internal/gsa"
)

var cacheCmd = &cobra.Command{
	Use:   "cache <cache-query>",
	Short: "Show a cached page",
	Long: `Fetch the appliance's cached copy of a document.

The argument is usually the cache query from a result's cache link, for
example "cache:Xy12:http://intranet/doc.html". A "cache:" prefix is added
when the query does not mention cache.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	registerParamFlags(cacheCmd.Flags(), searchFlagParams[1:5])
	addOutputFlags(cacheCmd)
}

// cacheQuery returns the search term for a cache lookup.
func cacheQuery(args []string) string {
	term := strings.TrimSpace(strings.Join(args, " "))
	if !strings.Contains(term, "cache") {
		term = "cache:" + term
	}
	return term
}

func runCache(cmd *cobra.Command, args []string) error {
	params := paramsFromFlags(cmd.Flags(), searchFlagParams[1:5], nil)
	params["search_term"] = cacheQuery(args)
	params["output"] = string(gsa.OutputXML)
	return search(cmd, params)
}
