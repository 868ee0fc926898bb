package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	apperrors "github.com/gsaclient/gsa/internal/errors"
	"github.com/gsaclient/gsa/internal/observability"
	"github.com/gsaclient/gsa/internal/server/handlers"
)

var doctorTimeout time.Duration

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long:  "Check the Go runtime, the loaded configuration and whether the appliance answers.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		log := observability.CLILogger

		log.Info("=== " + binaryName + " doctor ===")
		log.Info("")

		allChecks := true
		totalChecks := 4

		goVersion := runtime.Version()
		log.Info(fmt.Sprintf("[1/%d] Checking Go version... ✅ %s (%s/%s)", totalChecks, goVersion, runtime.GOOS, runtime.GOARCH),
			zap.String("go_version", goVersion))

		version := crucible.GetVersion()
		if version.Gofulmen != "" {
			log.Info(fmt.Sprintf("[2/%d] Checking Gofulmen... ✅ v%s", totalChecks, version.Gofulmen), zap.String("gofulmen_version", version.Gofulmen))
		} else {
			log.Warn(fmt.Sprintf("[2/%d] Checking Gofulmen... ⚠️  version unknown", totalChecks))
			allChecks = false
		}

		cfg, err := loadedConfig()
		if err != nil {
			log.Error(fmt.Sprintf("[3/%d] Checking configuration... ❌ invalid", totalChecks), zap.Error(err))
			ExitWithCode(log, foundry.ExitConfigInvalid, "Invalid configuration", err)
		}
		source := viper.ConfigFileUsed()
		if source == "" {
			source = "defaults and environment"
		}
		if cfg.GSA.URL == "" {
			log.Warn(fmt.Sprintf("[3/%d] Checking configuration... ⚠️  gsa.url not set (%s)", totalChecks, source))
			allChecks = false
		} else {
			log.Info(fmt.Sprintf("[3/%d] Checking configuration... ✅ %s", totalChecks, source), zap.String("gsa_url", cfg.GSA.URL))
		}

		if cfg.GSA.URL == "" {
			log.Warn(fmt.Sprintf("[4/%d] Checking appliance... ⚠️  skipped (no gsa.url)", totalChecks))
		} else {
			checkCtx, cancel := context.WithTimeout(ctx, doctorTimeout)
			start := time.Now()
			checkErr := handlers.UpstreamChecker{URL: cfg.GSA.URL}.CheckHealth(checkCtx)
			cancel()
			if checkErr != nil {
				env := apperrors.WrapExternalService(ctx, checkErr, "appliance unreachable")
				log.Error(fmt.Sprintf("[4/%d] Checking appliance... ❌ %v", totalChecks, checkErr),
					zap.String("error_code", env.Code), zap.String("correlation_id", env.CorrelationID))
				allChecks = false
			} else {
				elapsed := time.Since(start).Round(time.Millisecond)
				log.Info(fmt.Sprintf("[4/%d] Checking appliance... ✅ reachable (%s)", totalChecks, elapsed),
					zap.Duration("latency", elapsed))
			}
		}

		log.Info("")
		if allChecks {
			log.Info("✅ All checks passed!")
		} else {
			log.Warn("⚠️  Some checks failed. Review the output above for details.")
		}
		log.Info("=== End Diagnostics ===")
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 5*time.Second, "appliance reachability timeout")
}
