package ports

import (
	"context"
	"time"

	"NewsClipper/internal/domain"
)

// SearchSource executes one keyword-set query against a news search backend.
// A failing source reports an error; the pipeline treats that as zero
// candidates for the task, never as a fatal condition.
type SearchSource interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
}

// RecordSink persists one accepted record into the named collection.
type RecordSink interface {
	Persist(ctx context.Context, collection string, rec domain.AcceptedRecord) error
}

// StoreCleaner soft-deletes all existing entries of a collection before a run.
type StoreCleaner interface {
	Clear(ctx context.Context, collection string) error
}

// CoverResolver looks up a cover image for an accepted record's target page.
// It never fails: unreachable or imageless pages yield a placeholder.
type CoverResolver interface {
	Resolve(ctx context.Context, pageURL string) string
}

// RecordArchive keeps accepted records across runs for audit.
type RecordArchive interface {
	SaveAccepted(ctx context.Context, category string, rec domain.AcceptedRecord) error
}

// Notifier delivers the run digest to an out-of-band channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
