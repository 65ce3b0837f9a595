package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dead_link_checker/internal/adaptors"
	"dead_link_checker/internal/application/config"
	"dead_link_checker/internal/pkg/errors"
	"dead_link_checker/internal/pkg/metrics"
	"dead_link_checker/internal/report"
	"dead_link_checker/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultRoot = `./tests`

const (
	ExitOK        = 0
	ExitError     = 1
	ExitDeadLinks = 2
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := config.LoadEnvFile(config.EnvFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCommand(config.NewViper()), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintln(stderr, err)
	return ExitError
}

// NewRootCommand builds the scan command and its serve subcommand around v.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadlinks [root]",
		Short: "Find dead links in a tree of markdown documents",
		Long: `deadlinks walks a directory of markdown documents, checks every relative link
against the filesystem and every external link over HTTP, and writes a report
of the dead ones.

Every flag can also be set through its environment variable or config.env.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := DefaultRoot
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd.Context(), v, root)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String(config.KeyLogLevel, v.GetString(config.KeyLogLevel), `log level (trace, debug, info, warn, error) [APP_LOG_LEVEL]`)
	persistent.String(config.KeyLogFormat, v.GetString(config.KeyLogFormat), `log format (text, json) [APP_LOG_FORMAT]`)
	persistent.String(config.KeyForbiddenLinkPrefix, v.GetString(config.KeyForbiddenLinkPrefix), `links with this prefix are always dead [FORBIDDEN_LINK_PREFIX]`)
	persistent.String(config.KeyCurrentRepoURL, v.GetString(config.KeyCurrentRepoURL), `links into this repository should be relative [CURRENT_REPO_URL]`)
	persistent.String(config.KeyRequiresGHAuth, v.GetString(config.KeyRequiresGHAuth), `links with this prefix need authentication and are skipped [REQUIRES_GH_AUTH]`)
	persistent.Duration(config.KeyProbeTimeout, v.GetDuration(config.KeyProbeTimeout), `timeout of one external probe [PROBE_TIMEOUT]`)
	persistent.String(config.KeyUserAgent, v.GetString(config.KeyUserAgent), `User-Agent sent with probes [PROBE_USER_AGENT]`)
	persistent.Int(config.KeyWorkers, v.GetInt(config.KeyWorkers), `concurrent external probes [CHECKER_WORKERS]`)
	persistent.Int(config.KeyQueueSize, v.GetInt(config.KeyQueueSize), `capacity of the external link queue [CHECKER_QUEUE_SIZE]`)
	persistent.StringSlice(config.KeyExtensions, v.GetStringSlice(config.KeyExtensions), `document extensions to scan [SCAN_EXTENSIONS]`)
	persistent.StringSlice(config.KeyIgnoredDirectories, v.GetStringSlice(config.KeyIgnoredDirectories), `paths containing these names are skipped [SCAN_IGNORED_DIRECTORIES]`)

	local := cmd.Flags()
	local.StringP(config.KeyReportPath, `o`, v.GetString(config.KeyReportPath), `report file (default dead_links.json or dead_links.yaml, following --format) [REPORT_PATH]`)
	local.String(config.KeyReportFormat, v.GetString(config.KeyReportFormat), `report format (json, yaml) [REPORT_FORMAT]`)
	local.Bool(config.KeyKeepAlive, v.GetBool(config.KeyKeepAlive), `also list alive links in the report [REPORT_KEEP_ALIVE]`)
	local.Bool(config.KeyFailOnDead, v.GetBool(config.KeyFailOnDead), `exit with code 2 when dead links are found [FAIL_ON_DEAD]`)
	local.String(config.KeyMetricsTextfile, v.GetString(config.KeyMetricsTextfile), `write run metrics in textfile format to this path [METRICS_TEXTFILE]`)

	cmd.AddCommand(newServeCommand(v))

	bindFlags(v, persistent)
	bindFlags(v, local)
	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

func runScan(ctx context.Context, v *viper.Viper, root string) error {
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

	result, err := scanner.Scan(ctx, root)
	if err != nil {
		return err
	}

	sink := report.NewSink(cfg.Report.Path, cfg.Report.Format, logger)
	if err := sink.Write(result); err != nil {
		return err
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.WithError(err).Warn(`failed to write metrics textfile`)
		}
	}

	if cfg.FailOnDead && result.DeadCount() > 0 {
		return &exitError{
			code: ExitDeadLinks,
			msg:  fmt.Sprintf(`%d dead links found`, result.DeadCount()),
		}
	}
	return nil
}
