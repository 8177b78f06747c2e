package domain

import "time"

// Candidate is a raw search hit as returned by a search source.
// Candidates are immutable; the pipeline only decides whether to accept
// one and which tag to attach.
type Candidate struct {
	RawTitle    string
	URL         string
	PublishedAt time.Time
	SourceQuery string
}

// AcceptedRecord is the unit handed to the sink: a classified, deduplicated
// candidate with its display title and optional cover image.
type AcceptedRecord struct {
	Tag           string
	DisplayTitle  string
	URL           string
	PublishedDate time.Time
	CoverImage    string
}

// RunSummary aggregates per-run counters for the closing digest.
type RunSummary struct {
	StartedAt         time.Time
	Fetched           int
	Accepted          int
	Persisted         int
	Rejected          map[string]int
	PerTag            map[string]int
	SkippedCategories []string
}

// NewRunSummary initializes counter maps so callers can increment directly.
func NewRunSummary(startedAt time.Time) RunSummary {
	return RunSummary{
		StartedAt: startedAt,
		Rejected:  map[string]int{},
		PerTag:    map[string]int{},
	}
}
