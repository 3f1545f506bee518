package observability

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zapcore"
)

const (
	shipQueueSize     = 1024
	shipBatchSize     = 64
	shipFlushInterval = time.Second
	shipDrainTimeout  = 5 * time.Second
)

// startLogShipping tees records at or above BETTERSTACK_MIN_LEVEL to the
// Better Stack ingest endpoint. The stop func drains queued lines.
func startLogShipping(cfg config.Config, base *logging.Logger) (*logging.Logger, stopFunc, error) {
	if !cfg.BetterStackEnabled {
		return base, nil, nil
	}

	endpoint := shippingEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newLogShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.JSONEncoderConfig()),
		shipper,
		cfg.BetterStackMinLevel,
	)
	logger := base.Tee(core)
	logger.Info("log shipping enabled", "endpoint", endpoint, "min_level", cfg.BetterStackMinLevel.String())

	return logger, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, shipDrainTimeout)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain log shipper: %w", err)
		}
		return nil
	}, nil
}

func shippingEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		return value
	default:
		return "https://" + value
	}
}

// logShipper is a zapcore.WriteSyncer that posts JSON lines in batches.
// Lines are dropped, not blocked on, when the queue is full.
type logShipper struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   *fasthttp.Client

	mu      sync.RWMutex
	closed  bool
	lines   chan []byte
	done    chan struct{}
	dropped atomic.Uint64
}

func newLogShipper(endpoint, token string, timeout time.Duration) *logShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	s := &logShipper{
		endpoint: endpoint,
		token:    token,
		timeout:  timeout,
		client:   &fasthttp.Client{Name: "equipe-service-logs"},
		lines:    make(chan []byte, shipQueueSize),
		done:     make(chan struct{}),
	}
	go s.run()

	return s
}

func (s *logShipper) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses its buffer once Write returns
	select {
	case s.lines <- append([]byte(nil), line...):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "log shipper queue full; dropped=%d\n", n)
		}
	}

	return len(p), nil
}

func (s *logShipper) Sync() error {
	return nil
}

func (s *logShipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(shipFlushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, shipBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.send(batch)
		batch = batch[:0]
	}

	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				flush()
				return
			}
			batch = append(batch, line)
			if len(batch) >= shipBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *logShipper) send(batch [][]byte) {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	_ = body.WriteByte('[')
	for i, line := range batch {
		if i > 0 {
			_ = body.WriteByte(',')
		}
		_, _ = body.Write(line)
	}
	_ = body.WriteByte(']')

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if s.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+s.token)
	}
	req.SetBody(body.B)

	if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
		fmt.Fprintf(os.Stderr, "log shipper send failed: lines=%d err=%v\n", len(batch), err)
		return
	}
	if status := resp.StatusCode(); status >= fasthttp.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "log shipper got status=%d lines=%d\n", status, len(batch))
	}
}

// Close stops accepting lines and waits until the queue is flushed or ctx ends.
func (s *logShipper) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.lines)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
