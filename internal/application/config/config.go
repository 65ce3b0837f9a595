package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dead_link_checker/internal/domain/adaptors"
	"dead_link_checker/internal/pkg/errors"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const EnvFile = `config.env`

// DefaultReportName is the report file name without extension; the report format picks the extension.
const DefaultReportName = `dead_links`

// Viper keys. Flags registered by the CLI bind to the same names.
const (
	KeyLogLevel            = `log-level`
	KeyLogFormat           = `log-format`
	KeyForbiddenLinkPrefix = `forbidden-link-prefix`
	KeyCurrentRepoURL      = `current-repo-url`
	KeyRequiresGHAuth      = `requires-gh-auth`
	KeyReportPath          = `output`
	KeyReportFormat        = `format`
	KeyKeepAlive           = `keep-alive`
	KeyProbeTimeout        = `timeout`
	KeyUserAgent           = `user-agent`
	KeyWorkers             = `workers`
	KeyQueueSize           = `queue-size`
	KeyExtensions          = `extensions`
	KeyIgnoredDirectories  = `ignored-directories`
	KeyFailOnDead          = `fail-on-dead`
	KeyMetricsTextfile     = `metrics-textfile`
	KeyMetricsHost         = `metrics-host`
	KeyScanBaseDir         = `scan-base-dir`
)

var envBindings = map[string]string{
	KeyLogLevel:            `APP_LOG_LEVEL`,
	KeyLogFormat:           `APP_LOG_FORMAT`,
	KeyForbiddenLinkPrefix: `FORBIDDEN_LINK_PREFIX`,
	KeyCurrentRepoURL:      `CURRENT_REPO_URL`,
	KeyRequiresGHAuth:      `REQUIRES_GH_AUTH`,
	KeyReportPath:          `REPORT_PATH`,
	KeyReportFormat:        `REPORT_FORMAT`,
	KeyKeepAlive:           `REPORT_KEEP_ALIVE`,
	KeyProbeTimeout:        `PROBE_TIMEOUT`,
	KeyUserAgent:           `PROBE_USER_AGENT`,
	KeyWorkers:             `CHECKER_WORKERS`,
	KeyQueueSize:           `CHECKER_QUEUE_SIZE`,
	KeyExtensions:          `SCAN_EXTENSIONS`,
	KeyIgnoredDirectories:  `SCAN_IGNORED_DIRECTORIES`,
	KeyFailOnDead:          `FAIL_ON_DEAD`,
	KeyMetricsTextfile:     `METRICS_TEXTFILE`,
	KeyMetricsHost:         `HTTP_APP_METRICS_HOST`,
	KeyScanBaseDir:         `SCAN_BASE_DIR`,
}

var (
	DefaultExtensions         = []string{`md`, `markdown`}
	DefaultIgnoredDirectories = []string{`archive`, `embedded`, `embedded-hal`, `atmel`, `node_modules`, `STM32`, `legacy`}
)

type AppConfig struct {
	LogLevel  string
	LogFormat adaptors.LogFormat

	Rules  Rules
	Scan   ScanConfig
	Report ReportConfig

	ProbeTimeout time.Duration
	UserAgent    string
	Workers      int
	QueueSize    int

	FailOnDead      bool
	MetricsTextfile string
	MetricsHost     string
	ScanBaseDir     string
}

// Rules holds the prefix exclusions applied by the classifier. An empty prefix disables its rule.
type Rules struct {
	ForbiddenLinkPrefix string
	CurrentRepoURL      string
	RequiresAuthPrefix  string
}

type ScanConfig struct {
	Extensions         []string
	IgnoredDirectories []string
}

type ReportConfig struct {
	Path      string
	Format    string
	KeepAlive bool
}

// NewViper returns a viper instance with defaults and environment bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyLogLevel, string(adaptors.Info))
	v.SetDefault(KeyLogFormat, string(adaptors.TextFormat))
	v.SetDefault(KeyReportPath, ``)
	v.SetDefault(KeyReportFormat, `json`)
	v.SetDefault(KeyKeepAlive, false)
	v.SetDefault(KeyProbeTimeout, 10*time.Second)
	v.SetDefault(KeyUserAgent, `dead-link-checker/1.0`)
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyQueueSize, 100)
	v.SetDefault(KeyExtensions, DefaultExtensions)
	v.SetDefault(KeyIgnoredDirectories, DefaultIgnoredDirectories)
	v.SetDefault(KeyFailOnDead, false)
	v.SetDefault(KeyMetricsHost, `:9090`)
	v.SetDefault(KeyScanBaseDir, `.`)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return v
}

// LoadEnvFile loads config.env into the process environment when it exists.
// Variables that are already set are not overridden.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(err, `failed to load env file`)
}

func NewAppConfig(v *viper.Viper) (*AppConfig, error) {
	cfg := AppConfig{
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: adaptors.LogFormat(strings.ToLower(v.GetString(KeyLogFormat))),
		Rules: Rules{
			ForbiddenLinkPrefix: v.GetString(KeyForbiddenLinkPrefix),
			CurrentRepoURL:      v.GetString(KeyCurrentRepoURL),
			RequiresAuthPrefix:  v.GetString(KeyRequiresGHAuth),
		},
		Scan: ScanConfig{
			Extensions:         splitList(v.GetStringSlice(KeyExtensions)),
			IgnoredDirectories: splitList(v.GetStringSlice(KeyIgnoredDirectories)),
		},
		Report: ReportConfig{
			Path:      v.GetString(KeyReportPath),
			Format:    strings.ToLower(v.GetString(KeyReportFormat)),
			KeepAlive: v.GetBool(KeyKeepAlive),
		},
		ProbeTimeout:    v.GetDuration(KeyProbeTimeout),
		UserAgent:       v.GetString(KeyUserAgent),
		Workers:         v.GetInt(KeyWorkers),
		QueueSize:       v.GetInt(KeyQueueSize),
		FailOnDead:      v.GetBool(KeyFailOnDead),
		MetricsTextfile: v.GetString(KeyMetricsTextfile),
		MetricsHost:     v.GetString(KeyMetricsHost),
		ScanBaseDir:     v.GetString(KeyScanBaseDir),
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.Report.Path == "" {
		cfg.Report.Path = DefaultReportName + `.` + cfg.Report.Format
	}

	return &cfg, nil
}

// NewLogger builds the process logger from the log settings.
func (c *AppConfig) NewLogger() (*log.Logger, error) {
	logInstance := log.New()
	logInstance.SetOutput(os.Stderr)

	logLevel, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse log level`)
	}
	logInstance.SetLevel(logLevel)

	switch c.LogFormat {
	case adaptors.JSONFormat:
		logInstance.SetFormatter(&log.JSONFormatter{
			TimestampFormat:   time.RFC3339,
			DisableHTMLEscape: true,
		})
	default:
		logInstance.SetFormatter(&log.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	return logInstance, nil
}

// splitList accepts both repeated values and a single comma separated value,
// which is how lists arrive from environment variables.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, `,`) {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func validate(cfg *AppConfig) error {
	var errMsg []string
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		errMsg = append(errMsg, fmt.Sprintf(`log level %q is invalid`, cfg.LogLevel))
	}

	if !cfg.LogFormat.Valid() {
		errMsg = append(errMsg, fmt.Sprintf(`log format %q is invalid`, cfg.LogFormat))
	}

	if cfg.Report.Format != `json` && cfg.Report.Format != `yaml` {
		errMsg = append(errMsg, fmt.Sprintf(`report format %q is invalid`, cfg.Report.Format))
	}

	if cfg.ProbeTimeout <= 0 {
		errMsg = append(errMsg, `probe timeout must be positive`)
	}

	if cfg.Workers < 1 {
		errMsg = append(errMsg, `workers must be at least 1`)
	}

	if cfg.QueueSize < 1 {
		errMsg = append(errMsg, `queue size must be at least 1`)
	}

	if len(cfg.Scan.Extensions) == 0 {
		errMsg = append(errMsg, `extension list is empty`)
	}

	if len(errMsg) != 0 {
		return errors.Errorf(`validation failed: %s: %w`, strings.Join(errMsg, "\n"), errors.ErrInvalidConfig)
	}
	return nil
}
