// Command authority-mock runs a standalone attestation authority for local
// development and end-to-end testing. It signs execution attestations with a
// fresh Ed25519 key per process and applies a small static deny list instead
// of real policy evaluation.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theonlypal/browser-use-swiftapi/internal/platform/httpserver"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/logger"
)

func main() {
	log := logger.New(os.Getenv("MOCK_VERBOSE") == "true")

	addr := os.Getenv("MOCK_AUTHORITY_ADDR")
	if addr == "" {
		addr = ":9090"
	}

	denied := []string{"submit_payment", "delete_account"}
	if raw := os.Getenv("MOCK_DENY_ACTIONS"); raw != "" {
		denied = strings.Split(raw, ",")
	}

	authority, err := newAuthority(denied, log)
	if err != nil {
		log.Error("authority init failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	authority.Register(router)

	srv := httpserver.New(addr, router)

	log.Info("starting mock attestation authority", "addr", addr, "denied_actions", denied)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
