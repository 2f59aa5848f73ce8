package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Action Registry Test Suite
// =============================================================================
// Justification for unit tests: the registry is the reference Engine
// implementation; duplicate-registration rejection and unknown-action errors
// are part of the governed-surface contract.

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry()
}

func noop(context.Context, map[string]any) (any, error) { return nil, nil }

func (s *RegistrySuite) TestRegister() {
	s.Run("valid registration", func() {
		s.NoError(s.registry.Register("click_button", noop))
	})

	s.Run("duplicate name rejected", func() {
		err := s.registry.Register("click_button", noop)
		s.Error(err)
		s.Contains(err.Error(), "already registered")
	})

	s.Run("empty name rejected", func() {
		s.Error(s.registry.Register("", noop))
	})

	s.Run("nil func rejected", func() {
		s.Error(s.registry.Register("go_to_url", nil))
	})
}

func (s *RegistrySuite) TestInvoke() {
	s.Require().NoError(s.registry.Register("echo", func(_ context.Context, params map[string]any) (any, error) {
		return params["value"], nil
	}))

	s.Run("registered action runs with params", func() {
		result, err := s.registry.Invoke(context.Background(), "echo", map[string]any{"value": 42})
		s.NoError(err)
		s.Equal(42, result)
	})

	s.Run("unknown action", func() {
		_, err := s.registry.Invoke(context.Background(), "teleport", nil)
		s.ErrorIs(err, ErrUnknownAction)
		s.Contains(err.Error(), "teleport")
	})
}

func (s *RegistrySuite) TestActionsSorted() {
	for _, name := range []string{"scroll", "click_button", "take_screenshot"} {
		s.Require().NoError(s.registry.Register(name, noop))
	}

	s.Equal([]string{"click_button", "scroll", "take_screenshot"}, s.registry.Actions())
}
