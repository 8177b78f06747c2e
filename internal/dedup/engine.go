package dedup

import (
	"time"

	"NewsClipper/internal/domain"
)

// Tuned duplicate-detection constants: a shared run of 8 runes is roughly
// one short clause in CJK headlines.
const (
	DefaultMinCommonRun        = 8
	DefaultSimilarityThreshold = 0.7
)

// Policy carries the admission limits applied to one tag.
type Policy struct {
	Quota               int
	Window              time.Duration
	MinGuarantee        int
	MinCommonRun        int
	SimilarityThreshold float64
}

func (p Policy) withDefaults() Policy {
	if p.MinCommonRun <= 0 {
		p.MinCommonRun = DefaultMinCommonRun
	}
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return p
}

// Reason classifies an admission decision.
type Reason string

const (
	Accepted       Reason = "accepted"
	DuplicateURL   Reason = "duplicate_url"
	Untagged       Reason = "untagged"
	QuotaExhausted Reason = "quota_exhausted"
	DuplicateTitle Reason = "duplicate_title"
	Stale          Reason = "stale"
)

// State is the run-scoped memory shared by every task: URLs and normalized
// titles already accepted, plus per-tag output counts. Titles are compared
// globally, not per tag, so the same topic cannot slip through under two
// tags. A State lives for exactly one invocation.
type State struct {
	seenURLs   map[string]struct{}
	seenTitles []string
	tagCounts  map[string]int
}

// NewState returns empty run state.
func NewState() *State {
	return &State{
		seenURLs:  map[string]struct{}{},
		tagCounts: map[string]int{},
	}
}

// Count reports how many records have been accepted under tag so far.
func (s *State) Count(tag string) int {
	return s.tagCounts[tag]
}

// Engine applies the admission rules against a State. It is inherently
// sequential: each decision depends on the accepts before it.
type Engine struct {
	state *State
	now   time.Time
}

// NewEngine fixes the reference time so recency decisions stay reproducible
// across the whole run.
func NewEngine(state *State, now time.Time) *Engine {
	return &Engine{state: state, now: now}
}

// Admit decides accept or reject for one classified candidate. titleKey is
// the candidate's comparison form (classify.ComparisonKey). On accept the
// run state is updated before returning.
func (e *Engine) Admit(cand domain.Candidate, tag, titleKey string, pol Policy) Reason {
	pol = pol.withDefaults()

	canonical := CanonicalURL(cand.URL)
	if _, dup := e.state.seenURLs[canonical]; dup {
		return DuplicateURL
	}
	if tag == "" {
		return Untagged
	}
	if e.state.tagCounts[tag] >= pol.Quota {
		return QuotaExhausted
	}
	for _, seen := range e.state.seenTitles {
		if longestCommonRun(titleKey, seen) >= pol.MinCommonRun ||
			alignmentRatio(titleKey, seen) > pol.SimilarityThreshold {
			return DuplicateTitle
		}
	}

	// A zero PublishedAt means the source could not parse the timestamp;
	// such candidates count as stale rather than aborting the run. The
	// minimum guarantee overrides the window so sparse tags still produce
	// output from slightly stale matches.
	fresh := !cand.PublishedAt.IsZero() && e.now.Sub(cand.PublishedAt) <= pol.Window
	if !fresh && e.state.tagCounts[tag] >= pol.MinGuarantee {
		return Stale
	}

	e.state.seenURLs[canonical] = struct{}{}
	e.state.seenTitles = append(e.state.seenTitles, titleKey)
	e.state.tagCounts[tag]++
	return Accepted
}
