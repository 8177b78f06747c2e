package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"NewsClipper/internal/classify"
	"NewsClipper/internal/config"
	"NewsClipper/internal/dedup"
	"NewsClipper/internal/domain"
	"NewsClipper/internal/planner"
	"NewsClipper/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source         ports.SearchSource
	Sink           ports.RecordSink
	Cleaner        ports.StoreCleaner
	Covers         ports.CoverResolver
	Archive        ports.RecordArchive
	Notifier       ports.Notifier
	Categories     []config.CategoryConfig
	Collections    map[string]string
	ClearBeforeRun bool
	ResultSize     int
	Logger         *slog.Logger
}

// Pipeline implements the clipping workflow: plan tasks per category, fetch
// candidates, classify, admit through the dedup/quota engine, persist.
type Pipeline struct {
	source         ports.SearchSource
	sink           ports.RecordSink
	cleaner        ports.StoreCleaner
	covers         ports.CoverResolver
	archive        ports.RecordArchive
	notifier       ports.Notifier
	categories     []config.CategoryConfig
	collections    map[string]string
	clearBeforeRun bool
	resultSize     int
	classifiers    map[string]*classify.Classifier
	logger         *slog.Logger
}

// NewPipeline constructs the orchestration component and builds one
// classifier per category.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("search source is required")
	}
	if deps.Sink == nil {
		return nil, fmt.Errorf("record sink is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	classifiers := make(map[string]*classify.Classifier, len(deps.Categories))
	for i, cat := range deps.Categories {
		cl, err := classify.New(cat, foreignTokens(deps.Categories, i))
		if err != nil {
			return nil, fmt.Errorf("build classifier: %w", err)
		}
		classifiers[cat.Key] = cl
	}

	return &Pipeline{
		source:         deps.Source,
		sink:           deps.Sink,
		cleaner:        deps.Cleaner,
		covers:         deps.Covers,
		archive:        deps.Archive,
		notifier:       deps.Notifier,
		categories:     deps.Categories,
		collections:    deps.Collections,
		clearBeforeRun: deps.ClearBeforeRun,
		resultSize:     deps.ResultSize,
		classifiers:    classifiers,
		logger:         deps.Logger,
	}, nil
}

// foreignTokens gathers the entity vocabulary of every category except the
// one at index self; exclusive categories use it to route titles belonging
// to another category's pass.
func foreignTokens(cats []config.CategoryConfig, self int) []string {
	var tokens []string
	for i, cat := range cats {
		if i == self {
			continue
		}
		for _, ent := range cat.Entities {
			tokens = append(tokens, ent.Tokens...)
		}
	}
	return tokens
}

// Run executes one full clipping pass. State is created here and discarded
// at the end; the destination collections are treated as freshly cleared.
// The returned error covers only run-level breakage: per-task and per-record
// failures are logged and absorbed.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.RunSummary, error) {
	summary := domain.NewRunSummary(now)
	state := dedup.NewState()
	engine := dedup.NewEngine(state, now)

	for _, cat := range p.categories {
		collection := p.collections[cat.Key]
		if collection == "" {
			p.logger.Warn("no collection configured, skipping category", "category", cat.Key)
			summary.SkippedCategories = append(summary.SkippedCategories, cat.Key)
			continue
		}

		if p.cleaner != nil && p.clearBeforeRun {
			if err := p.cleaner.Clear(ctx, collection); err != nil {
				p.logger.Warn("clear collection", "category", cat.Key, "error", err)
			}
		}

		p.runCategory(ctx, engine, state, cat, collection, &summary)
	}

	p.logger.Info("run finished",
		"fetched", summary.Fetched,
		"accepted", summary.Accepted,
		"persisted", summary.Persisted)

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, BuildDigest(summary)); err != nil {
			p.logger.Warn("publish digest", "error", err)
		}
	}

	return summary, nil
}

func (p *Pipeline) runCategory(ctx context.Context, engine *dedup.Engine, state *dedup.State,
	cat config.CategoryConfig, collection string, summary *domain.RunSummary) {

	logger := p.logger.With("category", cat.Key)
	quotas := planner.QuotaByTag(cat)
	window := time.Duration(cat.WindowDays) * 24 * time.Hour
	classifier := p.classifiers[cat.Key]

	for _, task := range planner.Tasks(cat) {
		if state.Count(task.Tag) >= task.Quota {
			logger.Debug("tag quota already filled", "tag", task.Tag)
			continue
		}

		query := strings.Join(task.Keywords, " | ")
		candidates, err := p.source.Search(ctx, query, p.resultSize)
		if err != nil {
			// A failed fetch means zero candidates for this task, not a
			// failed run.
			logger.Warn("search failed", "query", query, "error", err)
			continue
		}
		summary.Fetched += len(candidates)

		for _, cand := range candidates {
			if state.Count(task.Tag) >= task.Quota {
				break
			}

			tag, ok := classifier.Classify(classify.MatchText(cand.RawTitle))
			if !ok {
				tag = ""
			}

			quota := quotas[tag]
			if quota == 0 {
				quota = task.Quota
			}
			policy := dedup.Policy{
				Quota:        quota,
				Window:       window,
				MinGuarantee: cat.MinGuarantee,
			}

			reason := engine.Admit(cand, tag, classify.ComparisonKey(cand.RawTitle), policy)
			if reason != dedup.Accepted {
				summary.Rejected[string(reason)]++
				logger.Debug("candidate rejected", "reason", reason, "url", cand.URL)
				continue
			}

			summary.Accepted++
			summary.PerTag[tag]++

			rec := domain.AcceptedRecord{
				Tag:           tag,
				DisplayTitle:  classify.DisplayTitle(cand.RawTitle),
				URL:           cand.URL,
				PublishedDate: cand.PublishedAt,
			}
			if p.covers != nil {
				rec.CoverImage = p.covers.Resolve(ctx, rec.URL)
			}

			if err := p.sink.Persist(ctx, collection, rec); err != nil {
				// Dropped, not retried; earlier records of this run stand.
				logger.Error("persist record", "url", rec.URL, "error", err)
			} else {
				summary.Persisted++
			}

			if p.archive != nil {
				if err := p.archive.SaveAccepted(ctx, cat.Key, rec); err != nil {
					logger.Warn("archive record", "url", rec.URL, "error", err)
				}
			}
		}
	}
}

// BuildDigest renders the human-readable run summary.
func BuildDigest(s domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "News clipping %s\n", s.StartedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "fetched %d, accepted %d, persisted %d\n", s.Fetched, s.Accepted, s.Persisted)

	tags := make([]string, 0, len(s.PerTag))
	for tag := range s.PerTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Fprintf(&b, "- %s: %d\n", tag, s.PerTag[tag])
	}

	if len(s.SkippedCategories) > 0 {
		fmt.Fprintf(&b, "skipped: %s\n", strings.Join(s.SkippedCategories, ", "))
	}
	return b.String()
}
