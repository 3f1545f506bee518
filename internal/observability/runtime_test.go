package observability

import (
	"context"
	"net"
	"testing"

	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
)

func TestStart_AllBackendsDisabled(t *testing.T) {
	base := logging.NewNop()
	rt, err := Start(config.Config{ServiceName: "equipe-service", AppEnv: config.EnvDev}, base)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rt.Logger() != base {
		t.Fatalf("expected base logger when log shipping is disabled")
	}
	if len(rt.backends) != 0 {
		t.Fatalf("expected no running backends, got %d", len(rt.backends))
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_PprofListens(t *testing.T) {
	rt, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(rt.backends) != 1 || rt.backends[0].name != "pprof" {
		t.Fatalf("unexpected backends: %+v", rt.backends)
	}
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_PprofAddrInUseFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	_, err = Start(config.Config{PprofEnabled: true, PprofAddr: ln.Addr().String()}, logging.NewNop())
	if err == nil {
		t.Fatalf("expected error for taken pprof addr")
	}
}

func TestStart_LogShippingRequiresEndpoint(t *testing.T) {
	_, err := Start(config.Config{BetterStackEnabled: true, BetterStackEndpoint: "  "}, logging.NewNop())
	if err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
