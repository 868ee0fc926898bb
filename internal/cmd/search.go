package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "github.com/gsaclient/gsa/internal/errors"
	"github.com/gsaclient/gsa/internal/gsa"
	"github.com/gsaclient/gsa/internal/observability"
	"github.com/gsaclient/gsa/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Search the appliance",
	Long: `Search the appliance and render the response.

With --output json (the default) the /cluster endpoint is queried and its
JSON is shown. With --output xml the /search endpoint is queried and the
result list is parsed. A term containing "cache" returns the cached page.`,
	Example: `  gsa search "annual report" --output xml --num 5
  gsa search budget --site finance --format json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	registerParamFlags(searchCmd.Flags(), searchFlagParams)
	addOutputFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	return search(cmd, paramsFromFlags(cmd.Flags(), searchFlagParams, args))
}

func search(cmd *cobra.Command, params gsa.Params) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	resp, err := client.Search(cmd.Context(), params)
	if err != nil {
		return apperrors.FromClientError(cmd.Context(), err)
	}
	observability.CLILogger.Debug("Search completed", zap.String("kind", string(resp.Kind)))

	rendered, err := output.NewFormatter(format).FormatSearch(resp)
	if err != nil {
		return err
	}
	return writeRendered(cmd, rendered)
}
