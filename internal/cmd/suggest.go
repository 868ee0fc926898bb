package cmd

import (
	"github.com/spf13/cobra"

	apperrors "github.com/gsaclient/gsa/internal/errors"
	"github.com/gsaclient/gsa/internal/output"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix...]",
	Short: "Fetch autosuggest completions",
	Long: `Fetch query completions from the /suggest endpoint.

The rich format returns {"results":[{"name":...}]}; the os format returns
the OpenSearch array form. Both are shown as a list in table mode.`,
	Example: `  gsa suggest bud --max 5
  gsa suggest bud --suggest-format os --format json`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	registerParamFlags(suggestCmd.Flags(), suggestFlagParams)
	addOutputFlags(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	suggestion, err := client.Suggest(cmd.Context(), paramsFromFlags(cmd.Flags(), suggestFlagParams, args))
	if err != nil {
		return apperrors.FromClientError(cmd.Context(), err)
	}

	rendered, err := output.NewFormatter(format).FormatSuggestion(suggestion)
	if err != nil {
		return err
	}
	return writeRendered(cmd, rendered)
}
