package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// quietRequestPaths are health-check endpoints whose request logs are not mirrored.
var quietRequestPaths = []string{"/healthz"}

// startTracing configures the global OpenTelemetry providers for Uptrace and,
// when UPTRACE_LOGS_ENABLED is set, mirrors log records to the OTel logs API.
func startTracing(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if !cfg.UptraceEnabled || dsn == "" {
		logging.SetMirror(nil)
		logger.Info("tracing disabled", "uptrace_enabled", cfg.UptraceEnabled, "dsn_set", dsn != "")
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(attribute.String("equipe.data_backend", cfg.DataBackend)),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	mirror := logging.MirrorFunc(nil)
	if cfg.UptraceLogsEnabled {
		mirror = newLogMirror(cfg.ServiceVersion, quietRequestPaths...)
	}
	logging.SetMirror(mirror)

	logger.Info("tracing enabled",
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"data_backend", cfg.DataBackend,
		"logs_mirrored", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}
