package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRIAGE_API_URL", "http://triagem.local:8001/")
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gateway.BaseURL != "http://triagem.local:8001" {
		t.Fatalf("base url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Timeout() != 30*time.Second {
		t.Fatalf("gateway timeout = %s, want 30s", cfg.Gateway.Timeout())
	}
	if diff := cmp.Diff([]int{1, 7, 30, 90}, cfg.Dashboard.PeriodChoices); diff != "" {
		t.Fatalf("period choices (-want +got):\n%s", diff)
	}
	if cfg.Dashboard.HistoryPageSize != 10 {
		t.Fatalf("history page size = %d", cfg.Dashboard.HistoryPageSize)
	}
}

func TestLoadRequiresOperatorHashWhenAuthEnabled(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("AUTH_OPERATOR_PASSWORD_HASH", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when auth is enabled without an operator hash")
	}
}

func TestLoadRejectsBadPeriodChoices(t *testing.T) {
	t.Setenv("DASHBOARD_PERIOD_CHOICES", "7,x")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed period choices")
	}
}

func TestGatewayTimeoutFallback(t *testing.T) {
	if got := (GatewayConfig{}).Timeout(); got != 30*time.Second {
		t.Fatalf("Timeout() = %s", got)
	}
}
