package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) clearEnv() {
	for _, key := range []string{
		"SWIFTAPI_KEY", "SWIFTAPI_URL", "SWIFTAPI_APP_ID",
		"SWIFTAPI_ACTOR", "SWIFTAPI_VERBOSE", "SWIFTAPI_TIMEOUT_SECONDS",
	} {
		s.T().Setenv(key, "")
	}
}

func (s *ConfigSuite) TestFromEnvDefaults() {
	s.clearEnv()

	cfg := FromEnv()

	s.Empty(cfg.APIKey)
	s.Equal(DefaultBaseURL, cfg.BaseURL)
	s.Equal(DefaultTimeout, cfg.Timeout)
	s.Equal(DefaultActor, cfg.Actor)
	s.Equal(DefaultAppID, cfg.AppID)
	s.False(cfg.FailOpen)
	s.False(cfg.Verbose)
}

func (s *ConfigSuite) TestFromEnvIntake() {
	s.clearEnv()
	s.T().Setenv("SWIFTAPI_KEY", "secret")
	s.T().Setenv("SWIFTAPI_URL", "https://authority.internal")
	s.T().Setenv("SWIFTAPI_ACTOR", "clerk-bot")
	s.T().Setenv("SWIFTAPI_VERBOSE", "true")
	s.T().Setenv("SWIFTAPI_TIMEOUT_SECONDS", "5")

	cfg := FromEnv()

	s.Equal("secret", cfg.APIKey)
	s.Equal("https://authority.internal", cfg.BaseURL)
	s.Equal("clerk-bot", cfg.Actor)
	s.True(cfg.Verbose)
	s.Equal(5*time.Second, cfg.Timeout)
}

func (s *ConfigSuite) TestFromEnvIgnoresBadTimeout() {
	s.clearEnv()
	s.T().Setenv("SWIFTAPI_TIMEOUT_SECONDS", "not-a-number")
	s.Equal(DefaultTimeout, FromEnv().Timeout)

	s.T().Setenv("SWIFTAPI_TIMEOUT_SECONDS", "-3")
	s.Equal(DefaultTimeout, FromEnv().Timeout)
}

func (s *ConfigSuite) TestMergeExplicitWins() {
	base := Config{APIKey: "env-key", Actor: "env-actor", Timeout: 4 * time.Second}

	merged := base.Merge(Config{APIKey: "explicit-key", MaxInFlight: 8})

	s.Equal("explicit-key", merged.APIKey)
	s.Equal("env-actor", merged.Actor)
	s.Equal(4*time.Second, merged.Timeout)
	s.Equal(8, merged.MaxInFlight)
}

func (s *ConfigSuite) TestMergeZeroValuesIgnored() {
	base := Config{APIKey: "key", BaseURL: "https://a.example", FailOpen: true}

	merged := base.Merge(Config{})

	s.Equal("key", merged.APIKey)
	s.Equal("https://a.example", merged.BaseURL)
	s.True(merged.FailOpen)
}

func (s *ConfigSuite) TestValidate() {
	valid := Config{APIKey: "key", BaseURL: "https://a.example", Timeout: time.Second}

	s.Run("valid config passes", func() {
		s.NoError(valid.Validate())
	})

	s.Run("missing api key", func() {
		cfg := valid
		cfg.APIKey = ""
		err := cfg.Validate()
		s.Error(err)
		s.Contains(err.Error(), "SWIFTAPI_KEY")
	})

	s.Run("bad scheme", func() {
		cfg := valid
		cfg.BaseURL = "ftp://a.example"
		s.Error(cfg.Validate())
	})

	s.Run("missing host", func() {
		cfg := valid
		cfg.BaseURL = "https://"
		s.Error(cfg.Validate())
	})

	s.Run("non-positive timeout", func() {
		cfg := valid
		cfg.Timeout = 0
		s.Error(cfg.Validate())
	})
}
