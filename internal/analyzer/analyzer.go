// Package analyzer is the attribution engine: it walks the repository
// commit log, resolves per-commit diff statistics through a bounded
// worker pool and aggregates added/removed lines into per-date and
// per-author tables.
package analyzer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/avolkov/locstat/internal/identity"
	"github.com/avolkov/locstat/internal/model"
	"github.com/avolkov/locstat/internal/model/interfaces"
)

// Analyzer computes contribution reports for a repository.
type Analyzer struct {
	provider interfaces.CommitProvider

	cfg Config
	log logze.Logger
	now func() time.Time
}

// Options configures a single analysis run.
type Options struct {
	// StartDate and EndDate bound the report window on effective commit
	// timestamps (inclusive). Zero values default to three months back
	// and now respectively.
	StartDate time.Time
	EndDate   time.Time

	// GroupBy selects the date bucket size, day by default.
	GroupBy model.GroupBy

	// FocusIdentity restricts the run to commits whose author display
	// name fuzzy-matches this free-text string. Matching happens before
	// any diff fetch, so non-matching commits cost nothing.
	FocusIdentity string

	// FileExtensions keeps only files with one of these suffixes when
	// counting lines. Empty means all non-binary files.
	FileExtensions []string

	// IgnoreMerges drops merge commits from the report entirely instead
	// of counting them as zero-line commits.
	IgnoreMerges bool

	// Progress, when set, is called after each processed commit.
	Progress func(processed, total int)
}

// commitResult tags a diff stat with its source commit. Completion order
// of the workers is nondeterministic; the index keeps attribution stable.
type commitResult struct {
	commit *model.Commit
	stat   model.DiffStat
	err    error
}

// New creates a new analyzer.
func New(cfg Config, provider interfaces.CommitProvider) (*Analyzer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Analyzer{
		provider: provider,
		cfg:      cfg,
		log:      logze.With("component", "analyzer"),
		now:      time.Now,
	}, nil
}

// Analyze produces the timeline and attribution tables for one repository.
// A commit-listing failure fails the whole run; per-commit diff failures
// degrade to zero-line records. An auth rejection anywhere stops the run.
func (a *Analyzer) Analyze(ctx context.Context, repo model.RepoRef, opts Options) (*model.Report, error) {
	groupBy := model.GroupBy(lang.Check(string(opts.GroupBy), string(model.GroupByDay)))
	start, end := resolveWindow(opts.StartDate, opts.EndDate, a.now)

	commits, err := a.listCommits(ctx, repo, start, end)
	if err != nil {
		return nil, err
	}

	candidates := a.selectCommits(commits, opts)
	results, err := a.resolveAll(ctx, repo, candidates, opts)
	if err != nil {
		return nil, err
	}

	report := a.reduce(results, opts, groupBy)
	report.Repo = repo
	report.RangeStart = start
	report.RangeEnd = end

	a.log.Info("analysis complete",
		"repo", repo.String(),
		"commits", report.TotalCommits,
		"buckets", len(report.Timeline),
		"authors", len(report.Authors))
	return report, nil
}

// selectCommits applies the focus-identity and ignore-merges filters.
// Both run before any diff resolution so filtered commits never incur a
// diff fetch.
func (a *Analyzer) selectCommits(commits []*model.Commit, opts Options) []*model.Commit {
	selected := make([]*model.Commit, 0, len(commits))
	for _, commit := range commits {
		if opts.FocusIdentity != "" && !identity.Match(commit.Author.Name, opts.FocusIdentity) {
			continue
		}
		if opts.IgnoreMerges && commit.IsMerge() {
			continue
		}
		selected = append(selected, commit)
	}

	if opts.FocusIdentity != "" {
		a.log.Info("focus filter applied",
			"focus", opts.FocusIdentity, "matched", len(selected), "total", len(commits))
	}
	return selected
}

// resolveAll fetches diff statistics for every candidate commit through a
// bounded worker pool. Each worker writes into its own slot; the single-
// threaded reducer reads them afterwards, so no lock guards the results.
func (a *Analyzer) resolveAll(ctx context.Context, repo model.RepoRef, commits []*model.Commit, opts Options) ([]commitResult, error) {
	results := make([]commitResult, len(commits))
	if len(commits) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(a.cfg.poolSize(len(commits)))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create worker pool")
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var processed atomic.Int64

	for i, commit := range commits {
		results[i].commit = commit

		wg.Add(1)
		task := func(i int, commit *model.Commit) func() {
			return func() {
				defer wg.Done()
				if ctx.Err() != nil {
					results[i].err = ctx.Err()
					return
				}
				results[i].stat, results[i].err = a.diffStatOrZero(ctx, repo, commit.ID, opts.FileExtensions)
				if opts.Progress != nil {
					opts.Progress(int(processed.Add(1)), len(commits))
				}
			}
		}(i, commit)

		if err := pool.Submit(task); err != nil {
			// Pool rejected the task, run it on the caller.
			task()
		}
	}
	wg.Wait()

	for _, result := range results {
		if result.err != nil && errors.Is(result.err, model.ErrAuth) {
			return nil, errm.Wrap(result.err, "diff resolution stopped")
		}
	}
	return results, nil
}

// reduce folds per-commit results into the two output tables.
func (a *Analyzer) reduce(results []commitResult, opts Options, groupBy model.GroupBy) *model.Report {
	type authorKey struct {
		bucket int64
		name   string
	}

	buckets := make(map[int64]*model.DailyAggregate)
	authors := make(map[authorKey]*model.AttributionRecord)
	total := 0

	for _, result := range results {
		if result.commit == nil || result.err != nil {
			continue
		}
		total++

		bucket := bucketTime(result.commit.EffectiveTime(), groupBy)
		bucketMs := bucket.UnixMilli()

		agg := buckets[bucketMs]
		if agg == nil {
			agg = &model.DailyAggregate{Date: bucket}
			buckets[bucketMs] = agg
		}
		agg.Additions += result.stat.Additions
		agg.Deletions += result.stat.Deletions

		// Attribution rows key on the raw display name. A focus run
		// folds every matched spelling into one author, keyed by the
		// first observed name.
		name := result.commit.Author.Name
		key := authorKey{bucket: bucketMs, name: name}
		if opts.FocusIdentity != "" {
			key.name = opts.FocusIdentity
		}

		record := authors[key]
		if record == nil {
			record = &model.AttributionRecord{Date: bucket, AuthorName: name}
			authors[key] = record
		}
		if record.AuthorEmail == "" {
			record.AuthorEmail = result.commit.Author.Email
		}
		record.Additions += result.stat.Additions
		record.Deletions += result.stat.Deletions
		record.CommitCount++
	}

	report := &model.Report{
		GroupBy:      groupBy,
		Timeline:     make([]model.DailyAggregate, 0, len(buckets)),
		Authors:      make([]model.AttributionRecord, 0, len(authors)),
		TotalCommits: total,
	}
	for _, agg := range buckets {
		report.Timeline = append(report.Timeline, *agg)
	}
	for _, record := range authors {
		report.Authors = append(report.Authors, *record)
	}

	sort.Slice(report.Timeline, func(i, j int) bool {
		return report.Timeline[i].Date.Before(report.Timeline[j].Date)
	})
	sort.Slice(report.Authors, func(i, j int) bool {
		ti := report.Authors[i].Additions + report.Authors[i].Deletions
		tj := report.Authors[j].Additions + report.Authors[j].Deletions
		if ti != tj {
			return ti > tj
		}
		if !report.Authors[i].Date.Equal(report.Authors[j].Date) {
			return report.Authors[i].Date.Before(report.Authors[j].Date)
		}
		return report.Authors[i].AuthorName < report.Authors[j].AuthorName
	})

	return report
}

// TestConnection proxies the provider's repository probe.
func (a *Analyzer) TestConnection(ctx context.Context, repo model.RepoRef) error {
	return a.provider.TestConnection(ctx, repo)
}
