package cli

import (
	"dead_link_checker/internal/adaptors"
	"dead_link_checker/internal/application/config"
	apphttp "dead_link_checker/internal/http"
	"dead_link_checker/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scans over HTTP",
		Long: `serve exposes POST /scan and GET /ready. Requested roots are resolved inside the
scan base directory. Metrics and pprof are served on a separate listener.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewAppConfig(v)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}

			webClient := adaptors.NewWebClient(cfg.ProbeTimeout, cfg.UserAgent, logger)
			scanner := service.NewScanner(logger, webClient, service.ScanOptionsFromConfig(cfg))

			return apphttp.Init(cmd.Context(), logger, cfg, scanner)
		},
	}

	flags := cmd.Flags()
	flags.String(config.KeyMetricsHost, v.GetString(config.KeyMetricsHost), `metrics and pprof listen address [HTTP_APP_METRICS_HOST]`)
	flags.String(config.KeyScanBaseDir, v.GetString(config.KeyScanBaseDir), `directory that requested roots are resolved in [SCAN_BASE_DIR]`)
	bindFlags(v, flags)

	return cmd
}
