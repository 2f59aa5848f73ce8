package attest

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Parameter Digest Test Suite
// =============================================================================
// Justification for unit tests: policy decisions key off the digest, so it
// must be stable across map orderings and processes while still separating
// distinct actions and parameter sets.

type DigestSuite struct {
	suite.Suite
}

func TestDigestSuite(t *testing.T) {
	suite.Run(t, new(DigestSuite))
}

func (s *DigestSuite) TestDeterministic() {
	a := Digest("click", map[string]any{"index": 3, "selector": "#buy"})
	b := Digest("click", map[string]any{"selector": "#buy", "index": 3})
	s.Equal(a, b)
	s.Len(a, 64) // sha256 hex
}

func (s *DigestSuite) TestActionNameParticipates() {
	params := map[string]any{"url": "https://example.com"}
	s.NotEqual(Digest("go_to_url", params), Digest("open_tab", params))
}

func (s *DigestSuite) TestParametersParticipate() {
	s.NotEqual(
		Digest("input_text", map[string]any{"text": "hello"}),
		Digest("input_text", map[string]any{"text": "world"}),
	)
}

func (s *DigestSuite) TestNilAndEmptyParams() {
	s.Equal(Digest("wait", nil), Digest("wait", nil))
	s.NotEmpty(Digest("wait", map[string]any{}))
}

func (s *DigestSuite) TestNestedStructures() {
	a := Digest("fill", map[string]any{"form": map[string]any{"name": "a", "age": 1}})
	b := Digest("fill", map[string]any{"form": map[string]any{"age": 1, "name": "a"}})
	s.Equal(a, b)
}

func (s *DigestSuite) TestUnmarshalableFallback() {
	// Channels cannot be JSON encoded; the digest still resolves.
	s.NotEmpty(Digest("weird", map[string]any{"ch": make(chan int)}))
}
