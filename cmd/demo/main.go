// Command demo drives a stub browser engine through the attestation gateway
// against a running authority (see cmd/authority-mock). It shows the three
// outcomes that matter: read-only passthrough, approved execution, and a
// policy block.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	memstore "github.com/theonlypal/browser-use-swiftapi/internal/audit/store/memory"
	"github.com/theonlypal/browser-use-swiftapi/internal/engine"
	"github.com/theonlypal/browser-use-swiftapi/internal/gateway"
	"github.com/theonlypal/browser-use-swiftapi/internal/intercept"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/logger"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/metrics"
	platformredis "github.com/theonlypal/browser-use-swiftapi/internal/platform/redis"
	"github.com/theonlypal/browser-use-swiftapi/internal/revocation"
)

// revocationList prefers a shared Redis-backed list when SWIFTAPI_REDIS_URL is
// set, falling back to process-local state.
func revocationList(log *slog.Logger) revocation.List {
	client, err := platformredis.New(platformredis.Options{URL: os.Getenv("SWIFTAPI_REDIS_URL")})
	if err != nil {
		log.Warn("redis unavailable, using in-memory revocation list", "error", err)
		return revocation.NewInMemoryList()
	}
	if client == nil {
		return revocation.NewInMemoryList()
	}
	return revocation.NewRedisList(client.Client)
}

func main() {
	log := logger.New(true)

	registry := engine.NewRegistry()
	stub := func(name string) engine.ActionFunc {
		return func(_ context.Context, params map[string]any) (any, error) {
			return fmt.Sprintf("%s ok", name), nil
		}
	}
	for _, name := range []string{"take_screenshot", "click_button", "go_to_url", "submit_payment"} {
		if err := registry.Register(name, stub(name)); err != nil {
			log.Error("register action", "action", name, "error", err)
			os.Exit(1)
		}
	}

	trail := memstore.NewInMemoryStore()

	gw, err := gateway.New(registry,
		gateway.WithLogger(log),
		gateway.WithMetrics(metrics.New()),
		gateway.WithAuditSinks(trail),
		gateway.WithRevocationList(revocationList(log)),
	)
	if err != nil {
		log.Error("gateway construction failed", "error", err)
		os.Exit(1)
	}

	log.Info("gateway ready", "actions", gw.Actions(), "authority", gw.Config().BaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, invocation := range []struct {
		name   string
		params map[string]any
	}{
		{"take_screenshot", nil},
		{"click_button", map[string]any{"index": 3}},
		{"go_to_url", map[string]any{"url": "https://example.com"}},
		{"submit_payment", map[string]any{"amount": 199.99}},
	} {
		result, err := gw.Invoke(ctx, invocation.name, invocation.params)
		var blocked *intercept.BlockedError
		switch {
		case errors.As(err, &blocked):
			log.Warn("blocked", "action", invocation.name, "cause", string(blocked.Cause), "reason", blocked.Reason)
		case err != nil:
			log.Error("execution failed", "action", invocation.name, "error", err)
		default:
			log.Info("executed", "action", invocation.name, "result", result)
		}
	}

	records, err := trail.ListRecent(ctx, 0)
	if err != nil {
		log.Error("read audit trail", "error", err)
		os.Exit(1)
	}
	log.Info("audit trail", "records", len(records))
	for _, rec := range records {
		log.Info("audit record",
			"action", rec.Action,
			"tier", string(rec.Tier),
			"state", string(rec.State),
			"cause", string(rec.Cause),
			"latency_ms", rec.Latency.Milliseconds(),
		)
	}
}
