// Package classify maps action names to risk tiers. Classification is the
// first gate on every invocation and must stay pure: no I/O, no failure modes.
package classify

import (
	"strings"

	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
)

// defaultReadOnly lists actions that observe browser state without changing
// it. Everything outside this set is attestable: an unknown action is never
// assumed safe.
var defaultReadOnly = map[string]struct{}{
	"screenshot":      {},
	"take_screenshot": {},
	"get_text":        {},
	"get_html":        {},
	"get_url":         {},
	"get_title":       {},
	"extract":         {},
	"find_text":       {},
	"read_state":      {},
	"wait":            {},
	"sleep":           {},
	"scroll":          {},
}

// Classifier decides the tier of an action by name. The zero value is not
// usable; construct via New.
type Classifier struct {
	readOnly  map[string]struct{}
	attestAll bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithReadOnlyActions replaces the default read-only set. Names are matched
// case-insensitively.
func WithReadOnlyActions(names ...string) Option {
	return func(c *Classifier) {
		set := make(map[string]struct{}, len(names))
		for _, name := range names {
			set[strings.ToLower(name)] = struct{}{}
		}
		c.readOnly = set
	}
}

// WithAttestAll forces every action, read-only included, through attestation.
func WithAttestAll() Option {
	return func(c *Classifier) {
		c.attestAll = true
	}
}

// New constructs a Classifier with the default read-only set.
func New(opts ...Option) *Classifier {
	c := &Classifier{readOnly: defaultReadOnly}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the tier for an action name. Total over all inputs.
func (c *Classifier) Classify(actionName string) domain.Tier {
	if c.attestAll {
		return domain.TierAttestable
	}
	if _, ok := c.readOnly[strings.ToLower(actionName)]; ok {
		return domain.TierReadOnly
	}
	return domain.TierAttestable
}

// Describe builds the per-invocation descriptor consumed by the enforcer.
func (c *Classifier) Describe(actionName string, params map[string]any) domain.ActionDescriptor {
	return domain.ActionDescriptor{
		Name:       actionName,
		Parameters: params,
		Tier:       c.Classify(actionName),
	}
}
