package observability

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

const (
	mirrorInstrumentation = "equipe-service/internal/platform/logging"
	requestLogMessage     = "http request"
)

type logMirror struct {
	logger     otellog.Logger
	quietPaths map[string]struct{}
}

func newLogMirror(version string, quietPaths ...string) logging.MirrorFunc {
	m := &logMirror{
		logger:     global.Logger(mirrorInstrumentation, otellog.WithInstrumentationVersion(version)),
		quietPaths: make(map[string]struct{}, len(quietPaths)),
	}
	for _, path := range quietPaths {
		m.quietPaths[path] = struct{}{}
	}
	return m.emit
}

func (m *logMirror) emit(ctx context.Context, level logging.Level, msg string, args ...any) {
	if m.quiet(msg, args) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	severity := severityOf(level)
	if !m.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
		return
	}

	now := time.Now()
	var record otellog.Record
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(severity)
	record.SetSeverityText(level.CapitalString())
	record.SetEventName(msg)
	record.SetBody(otellog.StringValue(msg))
	record.AddAttributes(attributesOf(args)...)

	m.logger.Emit(ctx, record)
}

// quiet reports request logs for health-check paths.
func (m *logMirror) quiet(msg string, args []any) bool {
	if msg != requestLogMessage {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] != "path" {
			continue
		}
		path, _ := args[i+1].(string)
		_, ok := m.quietPaths[path]
		return ok
	}
	return false
}

func severityOf(level logging.Level) otellog.Severity {
	switch {
	case level <= logging.LevelDebug:
		return otellog.SeverityDebug
	case level == logging.LevelInfo:
		return otellog.SeverityInfo
	case level == logging.LevelWarn:
		return otellog.SeverityWarn
	case level == logging.LevelError:
		return otellog.SeverityError
	default:
		return otellog.SeverityFatal
	}
}

// attributesOf pairs up key/value args. A trailing key gets an empty value.
func attributesOf(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if key = strings.TrimSpace(key); key == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: valueOf(args[i+1])})
	}
	return attrs
}

func valueOf(v any) otellog.Value {
	switch x := v.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(x)
	case bool:
		return otellog.BoolValue(x)
	case int:
		return otellog.IntValue(x)
	case int32:
		return otellog.Int64Value(int64(x))
	case int64:
		return otellog.Int64Value(x)
	case uint32:
		return otellog.Int64Value(int64(x))
	case float64:
		return otellog.Float64Value(x)
	case time.Duration:
		return otellog.StringValue(x.String())
	case time.Time:
		return otellog.StringValue(x.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(x.Error())
	case []string:
		items := make([]otellog.Value, 0, len(x))
		for _, item := range x {
			items = append(items, otellog.StringValue(item))
		}
		return otellog.SliceValue(items...)
	case map[string]any:
		kvs := make([]otellog.KeyValue, 0, len(x))
		for _, key := range slices.Sorted(maps.Keys(x)) {
			kvs = append(kvs, otellog.KeyValue{Key: key, Value: valueOf(x[key])})
		}
		return otellog.MapValue(kvs...)
	case fmt.Stringer:
		return otellog.StringValue(x.String())
	default:
		return otellog.StringValue(fmt.Sprint(x))
	}
}
