package catalog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/velobay/freightdesk/internal/config"
)

func TestNewAdapterWarnsWhenUnconfigured(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	if adapter := newAdapter(config.Config{}, zap.New(core)); adapter == nil {
		t.Fatalf("expected adapter even without credentials")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}

	logs.TakeAll()
	cfg := config.Config{Shopify: config.ShopifyConfig{Store: "test.myshopify.com", Token: "shpat_test"}}
	if adapter := newAdapter(cfg, zap.New(core)); adapter == nil {
		t.Fatalf("expected adapter")
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no warnings for configured store, got %d", logs.Len())
	}
}
