package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
)

type stopFunc func(context.Context) error

type backend struct {
	name string
	stop stopFunc
}

// Runtime owns the optional telemetry backends of the process: log shipping,
// tracing, continuous profiling and the pprof server.
type Runtime struct {
	logger   *logging.Logger
	backends []backend
}

// Start brings up every backend enabled in cfg. A failing backend stops the
// ones already started before the error is returned.
func Start(cfg config.Config, base *logging.Logger) (*Runtime, error) {
	if base == nil {
		base = logging.NewJSON(cfg.LogLevel)
	}

	logger, stopShipping, err := startLogShipping(cfg, base)
	if err != nil {
		return nil, fmt.Errorf("start log shipping: %w", err)
	}
	rt := &Runtime{logger: logger}
	rt.add("log shipping", stopShipping)

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (stopFunc, error)
	}{
		{name: "tracing", start: startTracing},
		{name: "profiling", start: startProfiling},
		{name: "pprof", start: startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, logger)
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = rt.Shutdown(ctx)
			cancel()
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		rt.add(step.name, stop)
	}

	return rt, nil
}

func (r *Runtime) add(name string, stop stopFunc) {
	if stop == nil {
		return
	}
	r.backends = append(r.backends, backend{name: name, stop: stop})
}

// Logger returns the process logger, teed to the log shipper when enabled.
func (r *Runtime) Logger() *logging.Logger {
	return r.logger
}

// Shutdown stops backends in reverse start order so shipped logs are drained last.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(r.backends) - 1; i >= 0; i-- {
		b := r.backends[i]
		if err := b.stop(ctx); err != nil {
			r.logger.Error("stop observability backend failed", "backend", b.name, "error", err)
			errs = append(errs, fmt.Errorf("stop %s: %w", b.name, err))
		}
	}
	r.backends = nil

	return errors.Join(errs...)
}
