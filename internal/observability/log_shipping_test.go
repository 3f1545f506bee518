package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
)

type ingestRecorder struct {
	mu      sync.Mutex
	auth    []string
	batches [][]map[string]any
}

func (r *ingestRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
			return
		}
		var batch []map[string]any
		if err := sonic.Unmarshal(body, &batch); err != nil {
			t.Errorf("expected JSON array body: %v (raw=%s)", err, body)
		}

		r.mu.Lock()
		r.auth = append(r.auth, req.Header.Get("Authorization"))
		r.batches = append(r.batches, batch)
		r.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}
}

func (r *ingestRecorder) lines() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []map[string]any
	for _, batch := range r.batches {
		out = append(out, batch...)
	}
	return out
}

func shippingConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "ingest-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelWarn,
		ServiceName:         "equipe-service",
		AppEnv:              config.EnvDev,
	}
}

func TestStartLogShipping_ShipsBatchOnDrain(t *testing.T) {
	recorder := &ingestRecorder{}
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	logger, stop, err := startLogShipping(shippingConfig(server.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("start log shipping: %v", err)
	}

	logger.Warn("fetch equipe members failed", "equipe_id", "a3d0c9e4-7f55-4a7a-8d0e-1b2c3d4e5f01")
	logger.Error("fetch equipes failed", "error", "timeout")
	logger.Info("funcionarios loaded", "count", 8)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	lines := recorder.lines()
	if len(lines) != 2 {
		t.Fatalf("expected warn and error lines only, got %d: %v", len(lines), lines)
	}
	if lines[0]["msg"] != "fetch equipe members failed" || lines[1]["msg"] != "fetch equipes failed" {
		t.Fatalf("unexpected shipped lines: %v", lines)
	}
	for _, auth := range recorder.auth {
		if auth != "Bearer ingest-token" {
			t.Fatalf("unexpected authorization header %q", auth)
		}
	}
}

func TestLogShipper_DropsWritesAfterClose(t *testing.T) {
	recorder := &ingestRecorder{}
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	shipper := newLogShipper(server.URL, "", time.Second)
	if err := shipper.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	n, err := shipper.Write([]byte(`{"msg":"late"}`))
	if err != nil || n == 0 {
		t.Fatalf("expected write to be accepted and dropped, n=%d err=%v", n, err)
	}
	if got := recorder.lines(); len(got) != 0 {
		t.Fatalf("expected nothing shipped, got %v", got)
	}
}

func TestShippingEndpoint(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"in.logs.betterstack.com":  "https://in.logs.betterstack.com",
		"http://localhost:9000":    "http://localhost:9000",
		" https://ingest.example ": "https://ingest.example",
	}
	for raw, want := range tests {
		if got := shippingEndpoint(raw); got != want {
			t.Fatalf("shippingEndpoint(%q) = %q, want %q", raw, got, want)
		}
	}
}
