package classify

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
)

// =============================================================================
// Classifier Test Suite
// =============================================================================
// Justification for unit tests: classification is the first safety gate and
// its fail-closed default (unknown action => attestable) cannot be observed
// from higher layers without a network stub. Tested exhaustively here instead.

type ClassifierSuite struct {
	suite.Suite
}

func TestClassifierSuite(t *testing.T) {
	suite.Run(t, new(ClassifierSuite))
}

func (s *ClassifierSuite) TestDefaults() {
	c := New()

	s.Run("read-only actions classify as read_only", func() {
		for _, name := range []string{"screenshot", "take_screenshot", "extract", "get_text", "scroll", "wait"} {
			s.Equal(domain.TierReadOnly, c.Classify(name), name)
		}
	})

	s.Run("mutating actions classify as attestable", func() {
		for _, name := range []string{"click", "input_text", "go_to_url", "submit_payment", "evaluate"} {
			s.Equal(domain.TierAttestable, c.Classify(name), name)
		}
	})

	s.Run("unknown actions default to attestable", func() {
		s.Equal(domain.TierAttestable, c.Classify("totally_new_action"))
		s.Equal(domain.TierAttestable, c.Classify(""))
	})

	s.Run("matching is case-insensitive", func() {
		s.Equal(domain.TierReadOnly, c.Classify("Screenshot"))
		s.Equal(domain.TierReadOnly, c.Classify("GET_TEXT"))
	})
}

func (s *ClassifierSuite) TestWithReadOnlyActions() {
	c := New(WithReadOnlyActions("peek", "Inspect"))

	s.Equal(domain.TierReadOnly, c.Classify("peek"))
	s.Equal(domain.TierReadOnly, c.Classify("inspect"))
	// Replacing the set drops the defaults.
	s.Equal(domain.TierAttestable, c.Classify("screenshot"))
}

func (s *ClassifierSuite) TestWithAttestAll() {
	c := New(WithAttestAll())

	s.Equal(domain.TierAttestable, c.Classify("screenshot"))
	s.Equal(domain.TierAttestable, c.Classify("get_text"))
	s.Equal(domain.TierAttestable, c.Classify("click"))
}

func (s *ClassifierSuite) TestDescribe() {
	c := New()
	params := map[string]any{"index": 3}

	desc := c.Describe("click", params)
	s.Equal("click", desc.Name)
	s.Equal(domain.TierAttestable, desc.Tier)
	s.Equal(params, desc.Parameters)

	s.Equal(domain.TierReadOnly, c.Describe("screenshot", nil).Tier)
}

func (s *ClassifierSuite) TestIsPure() {
	c := New()

	// Same input, same output, no state carried between calls.
	for i := 0; i < 3; i++ {
		s.Equal(domain.TierReadOnly, c.Classify("extract"))
		s.Equal(domain.TierAttestable, c.Classify("click"))
	}
}
