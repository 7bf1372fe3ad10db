// Package pipeline runs one report extraction: three sequential searches,
// normalization, and aggregation into a store.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robby/epicreport/internal/config"
	"github.com/robby/epicreport/internal/export"
	"github.com/robby/epicreport/internal/jira"
	"github.com/robby/epicreport/internal/store"
)

// Fetcher returns the complete result set of a JQL query.
// *jira.Client implements it.
type Fetcher interface {
	Search(ctx context.Context, jql string) ([]jira.Issue, error)
}

// Queries holds the JQL of the three ticket categories.
type Queries struct {
	Scr   string
	Story string
	Epic  string
}

// QueriesFor builds the queries for the configured project and time window.
func QueriesFor(cfg config.Config) Queries {
	return Queries{
		Scr:   jira.ScrQuery(cfg.ProjectKey, cfg.TimeFrameExpression),
		Story: jira.StoryQuery(cfg.TimeFrameExpression),
		Epic:  jira.EpicQuery(cfg.ProjectKey, cfg.TimeFrameExpression),
	}
}

// Pipeline wires a fetcher to the normalizer and the store.
type Pipeline struct {
	fetcher    Fetcher
	normalizer jira.Normalizer
	queries    Queries
	log        zerolog.Logger
}

// New creates a pipeline for cfg that fetches through fetcher.
func New(cfg config.Config, fetcher Fetcher, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		normalizer: jira.Normalizer{
			EpicLinkField: cfg.EpicLinkField,
			OwnerField:    cfg.OwnerField,
			EpicPrefix:    cfg.EpicPrefix(),
		},
		queries: QueriesFor(cfg),
		log:     log,
	}
}

// Run fetches SCRs, stories and epics one after another and aggregates them.
// The first fetch error aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*store.Store, error) {
	scrs, err := p.fetch(ctx, "scr", p.queries.Scr)
	if err != nil {
		return nil, err
	}
	stories, err := p.fetch(ctx, "story", p.queries.Story)
	if err != nil {
		return nil, err
	}
	epics, err := p.fetch(ctx, "epic", p.queries.Epic)
	if err != nil {
		return nil, err
	}

	s := store.Build(
		p.normalizer.NormalizeAll(scrs),
		p.normalizer.NormalizeAll(stories),
		p.normalizer.NormalizeAll(epics),
	)

	stats := s.Stats()
	p.log.Info().
		Int("epics", stats.Epics).
		Int("stories", stats.Stories).
		Int("scrs", stats.Scrs).
		Int("rows", stats.Rows).
		Int("dropped", stats.Dropped).
		Msg("report aggregated")

	return s, nil
}

// Export runs the pipeline and writes the report to path.
// Nothing is written if any fetch fails.
func (p *Pipeline) Export(ctx context.Context, path string) (store.Stats, error) {
	s, err := p.Run(ctx)
	if err != nil {
		return store.Stats{}, err
	}
	if err := export.WriteFile(path, s.Rows()); err != nil {
		return store.Stats{}, err
	}
	return s.Stats(), nil
}

func (p *Pipeline) fetch(ctx context.Context, category, jql string) ([]jira.Issue, error) {
	issues, err := p.fetcher.Search(ctx, jql)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s tickets: %w", category, err)
	}
	p.log.Info().Str("category", category).Int("count", len(issues)).Msg("tickets fetched")
	return issues, nil
}
