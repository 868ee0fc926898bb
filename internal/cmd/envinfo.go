package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gsaclient/gsa/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display version, runtime and effective configuration information.",
	Run: func(cmd *cobra.Command, args []string) {
		version := crucible.GetVersion()
		log := observability.CLILogger

		log.Info("=== " + binaryName + " environment ===")
		log.Info("")

		log.Info("Application:")
		log.Info("  Name:       " + binaryName)
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("")

		log.Info("Runtime:")
		log.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		log.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		log.Info("")

		cfg, err := loadedConfig()
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return
		}
		search := cfg.GSA.SearchOptions()
		suggest := cfg.GSA.SuggestOptions()

		log.Info("Appliance:")
		log.Info("  URL:             "+valueOrUnset(cfg.GSA.URL), zap.String("gsa_url", cfg.GSA.URL))
		log.Info("  Root URL:        " + valueOrUnset(cfg.GSA.RootURL))
		log.Info("  Timeout:         " + cfg.GSA.Timeout.String())
		log.Info("  User Agent:      " + cfg.GSA.UserAgent)
		log.Info("  Output:          " + string(search.Output))
		log.Info("  Access:          " + search.Access)
		log.Info("  Client:          " + search.Client)
		log.Info("  Proxy Stylesheet: " + search.ProxyStylesheet)
		log.Info("  Site:            " + search.Site)
		log.Info(fmt.Sprintf("  Num:             %d", search.Num))
		log.Info(fmt.Sprintf("  Suggest Max:     %d", suggest.Max))
		log.Info("  Suggest Format:  " + string(suggest.Format))
		log.Info("")

		log.Info("Server:")
		log.Info("  Host:            "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		log.Info(fmt.Sprintf("  Port:            %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		log.Info("  Log Level:       " + cfg.Logging.Level)
		log.Info(fmt.Sprintf("  Metrics:         %t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port))
		log.Info("  Config File:     " + valueOrUnset(viper.ConfigFileUsed()))
		log.Info("")

		log.Info("=== End Environment Information ===")
	},
}

func valueOrUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
