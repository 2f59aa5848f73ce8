package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Defaults applied when neither explicit configuration nor environment
// variables provide a value.
const (
	DefaultBaseURL = "https://swiftapi.ai"
	DefaultTimeout = 10 * time.Second
	DefaultActor   = "browser-use-agent"
	DefaultAppID   = "browser-use"
)

// Config holds gateway settings. It is built once at gateway construction and
// is immutable afterwards; components receive it by value and never write back.
type Config struct {
	// APIKey authenticates against the attestation authority. Required.
	APIKey string

	// BaseURL is the authority endpoint. Defaults to the hosted authority.
	BaseURL string

	// AppID and Actor identify the calling application and agent in
	// attestation requests and audit records.
	AppID string
	Actor string

	// Timeout bounds each attestation exchange, wall-clock from dispatch.
	Timeout time.Duration

	// MaxInFlight bounds concurrent attestation requests. Zero means
	// unbounded.
	MaxInFlight int

	// FailOpen allows actions through when the authority cannot be reached.
	// It defaults to false and is deliberately not settable from the
	// environment: enabling it disables the safety guarantee, so callers
	// must opt in explicitly via gateway.WithFailOpen.
	FailOpen bool

	// Verbose enables per-action debug logging.
	Verbose bool
}

// FromEnv builds a Config from environment variables so callers that do not
// construct one explicitly still get a working setup. Explicit configuration
// passed to the gateway takes precedence over these values.
func FromEnv() Config {
	cfg := Config{
		APIKey:  os.Getenv("SWIFTAPI_KEY"),
		BaseURL: os.Getenv("SWIFTAPI_URL"),
		AppID:   os.Getenv("SWIFTAPI_APP_ID"),
		Actor:   os.Getenv("SWIFTAPI_ACTOR"),
		Verbose: os.Getenv("SWIFTAPI_VERBOSE") == "true",
	}
	if raw := os.Getenv("SWIFTAPI_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg.withDefaults()
}

// Merge overlays explicit values onto the receiver. Zero values in other are
// ignored so environment intake survives partial overrides.
func (c Config) Merge(other Config) Config {
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if other.AppID != "" {
		c.AppID = other.AppID
	}
	if other.Actor != "" {
		c.Actor = other.Actor
	}
	if other.Timeout > 0 {
		c.Timeout = other.Timeout
	}
	if other.MaxInFlight > 0 {
		c.MaxInFlight = other.MaxInFlight
	}
	if other.FailOpen {
		c.FailOpen = true
	}
	if other.Verbose {
		c.Verbose = true
	}
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Actor == "" {
		c.Actor = DefaultActor
	}
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
	return c
}

// Validate rejects configurations that must never reach a running gateway.
// A gateway built from an invalid Config would either block everything or
// silently allow everything, so construction fails instead.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set SWIFTAPI_KEY or pass it explicitly)")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https, got %q", c.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL missing host: %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
