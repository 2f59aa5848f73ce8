package enforce

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/theonlypal/browser-use-swiftapi/internal/attest"
	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
	"github.com/theonlypal/browser-use-swiftapi/internal/enforce/mocks"
)

// =============================================================================
// Policy Enforcer Test Suite
// =============================================================================
// Justification for unit tests: the enforcer is the single safety-critical
// decision point. Every client error kind crossed with both fail modes must
// map to exactly one verdict, and the read-only fast path must provably skip
// the network. None of that is observable end-to-end without a mock verifier.

type EnforcerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	verifier *mocks.MockVerifier
}

func TestEnforcerSuite(t *testing.T) {
	suite.Run(t, new(EnforcerSuite))
}

func (s *EnforcerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.verifier = mocks.NewMockVerifier(s.ctrl)
}

func (s *EnforcerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EnforcerSuite) newEnforcer(opts ...Option) *Enforcer {
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	e, err := New(s.verifier, opts...)
	s.Require().NoError(err)
	return e
}

func attestable(name string) domain.ActionDescriptor {
	return domain.ActionDescriptor{Name: name, Tier: domain.TierAttestable}
}

func readOnly(name string) domain.ActionDescriptor {
	return domain.ActionDescriptor{Name: name, Tier: domain.TierReadOnly}
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *EnforcerSuite) TestNew() {
	s.Run("nil verifier returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "verifier is required")
	})

	s.Run("valid verifier returns enforcer", func() {
		e, err := New(s.verifier)
		s.NoError(err)
		s.NotNil(e)
	})
}

// =============================================================================
// Read-Only Fast Path
// =============================================================================

func (s *EnforcerSuite) TestReadOnlySkipsNetwork() {
	// No EXPECT on the verifier: any call would fail the test.
	e := s.newEnforcer()

	verdict := e.Evaluate(context.Background(), readOnly("take_screenshot"))

	s.True(verdict.Execute)
	s.Equal(domain.CauseApproved, verdict.Cause)
}

// =============================================================================
// Authority Decision Relay
// =============================================================================

func (s *EnforcerSuite) TestAllowedDecision() {
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(attest.Decision{Allowed: true, PolicyID: "pol-1"}, nil)
	e := s.newEnforcer()

	verdict := e.Evaluate(context.Background(), attestable("click_button"))

	s.True(verdict.Execute)
	s.Equal(domain.CauseApproved, verdict.Cause)
	s.Equal("pol-1", verdict.PolicyID)
}

func (s *EnforcerSuite) TestDeniedDecision() {
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(attest.Decision{Allowed: false, Reason: "high-risk domain", PolicyID: "pol-7"}, nil)
	e := s.newEnforcer()

	verdict := e.Evaluate(context.Background(), attestable("click_button"))

	s.False(verdict.Execute)
	s.Equal(domain.CauseDeniedByPolicy, verdict.Cause)
	s.Equal("high-risk domain", verdict.Reason)
	s.Equal("pol-7", verdict.PolicyID)
}

// =============================================================================
// Fail-Closed Error Absorption
// =============================================================================

func (s *EnforcerSuite) TestFailClosedOnClientErrors() {
	cases := []struct {
		kind attest.ErrorKind
		want domain.Cause
	}{
		{attest.KindUnreachable, domain.CauseServiceUnreachable},
		{attest.KindTimeout, domain.CauseTimeout},
		{attest.KindMalformedResponse, domain.CauseMalformedResponse},
		{attest.KindServiceError, domain.CauseServiceUnreachable},
	}
	for _, tc := range cases {
		s.Run(string(tc.kind), func() {
			s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
				Return(attest.Decision{}, &attest.Error{Kind: tc.kind})
			e := s.newEnforcer()

			verdict := e.Evaluate(context.Background(), attestable("submit_payment"))

			s.False(verdict.Execute)
			s.Equal(tc.want, verdict.Cause)
		})
	}
}

func (s *EnforcerSuite) TestFailClosedOnUnknownError() {
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(attest.Decision{}, errors.New("something odd"))
	e := s.newEnforcer()

	verdict := e.Evaluate(context.Background(), attestable("click_button"))

	s.False(verdict.Execute)
	s.Equal(domain.CauseServiceUnreachable, verdict.Cause)
}

// =============================================================================
// Fail-Open Override (Explicit Opt-In Only)
// =============================================================================

func (s *EnforcerSuite) TestFailOpenOverride() {
	for _, kind := range []attest.ErrorKind{attest.KindUnreachable, attest.KindTimeout, attest.KindMalformedResponse} {
		s.Run(string(kind), func() {
			s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
				Return(attest.Decision{}, &attest.Error{Kind: kind})
			e := s.newEnforcer(WithFailOpen())

			verdict := e.Evaluate(context.Background(), attestable("click_button"))

			s.True(verdict.Execute)
			s.Equal(domain.CauseFailOpenOverride, verdict.Cause)
		})
	}
}

func (s *EnforcerSuite) TestFailOpenDoesNotOverrideDenials() {
	// Fail-open only covers client failures; an explicit authority denial
	// still blocks.
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(attest.Decision{Allowed: false, Reason: "denied"}, nil)
	e := s.newEnforcer(WithFailOpen())

	verdict := e.Evaluate(context.Background(), attestable("click_button"))

	s.False(verdict.Execute)
	s.Equal(domain.CauseDeniedByPolicy, verdict.Cause)
}

func (s *EnforcerSuite) TestDefaultNeverFailsOpen() {
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(attest.Decision{}, &attest.Error{Kind: attest.KindUnreachable})
	e := s.newEnforcer() // no WithFailOpen

	verdict := e.Evaluate(context.Background(), attestable("click_button"))

	s.False(verdict.Execute)
	s.NotEqual(domain.CauseFailOpenOverride, verdict.Cause)
}

// =============================================================================
// Idempotence
// =============================================================================

func (s *EnforcerSuite) TestEvaluateIsIdempotent() {
	s.verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).
		Return(attest.Decision{Allowed: true, PolicyID: "pol-1"}, nil).
		Times(2)
	e := s.newEnforcer()
	desc := attestable("click_button")

	first := e.Evaluate(context.Background(), desc)
	second := e.Evaluate(context.Background(), desc)

	s.Equal(first, second)
}
