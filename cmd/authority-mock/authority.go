package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/theonlypal/browser-use-swiftapi/internal/platform/middleware"
)

// authority evaluates verification requests against a static deny list and
// issues signed execution attestations.
type authority struct {
	denied    map[string]struct{}
	signer    ed25519.PrivateKey
	publicKey ed25519.PublicKey
	logger    *slog.Logger

	mu      sync.Mutex
	revoked []string
}

func newAuthority(deniedActions []string, logger *slog.Logger) (*authority, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	denied := make(map[string]struct{}, len(deniedActions))
	for _, action := range deniedActions {
		denied[strings.TrimSpace(strings.ToLower(action))] = struct{}{}
	}
	return &authority{
		denied:    denied,
		signer:    private,
		publicKey: public,
		logger:    logger,
	}, nil
}

// Register mounts the authority endpoints on the router.
func (a *authority) Register(r chi.Router) {
	r.Get("/", a.handleInfo)
	r.With(middleware.RequireBearer(a.logger)).Post("/verify", a.handleVerify)
	r.Get("/attestation/revocations", a.handleRevocations)
	r.Post("/attestation/revoke", a.handleRevoke)
}

func (a *authority) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":       "swiftapi-authority-mock",
		"version":    "1.0.0",
		"public_key": base64.StdEncoding.EncodeToString(a.publicKey),
	})
}

func (a *authority) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequestID       string `json:"request_id"`
		Actor           string `json:"actor"`
		AppID           string `json:"app_id"`
		Action          string `json:"action"`
		ParameterDigest string `json:"parameter_digest"`
		Intent          string `json:"intent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed verification request"})
		return
	}

	if _, deny := a.denied[strings.ToLower(req.Action)]; deny {
		a.logger.Info("denied action", "action", req.Action, "actor", req.Actor)
		writeJSON(w, http.StatusOK, map[string]any{
			"allowed":   false,
			"reason":    fmt.Sprintf("action %q is on the deny list", req.Action),
			"policy_id": "mock-denylist-v1",
		})
		return
	}

	token, err := a.signAttestation(req.Actor, req.Action)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "attestation signing failed"})
		return
	}

	a.logger.Info("approved action", "action", req.Action, "actor", req.Actor)
	writeJSON(w, http.StatusOK, map[string]any{
		"allowed":               true,
		"policy_id":             "mock-allow-v1",
		"verification_id":       uuid.NewString(),
		"execution_attestation": token,
	})
}

func (a *authority) signAttestation(actor, action string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   fmt.Sprintf("%s:%s", actor, action),
		Issuer:    "swiftapi-authority-mock",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(a.signer)
}

func (a *authority) handleRevocations(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	revoked := append([]string{}, a.revoked...)
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"revoked": revoked})
}

func (a *authority) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JTI string `json:"jti"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JTI == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "jti is required"})
		return
	}
	a.mu.Lock()
	a.revoked = append(a.revoked, req.JTI)
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"revoked": req.JTI})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
