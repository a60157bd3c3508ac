package analyzer

import (
	"context"
	"time"

	"github.com/maxbolgarin/errm"

	"github.com/avolkov/locstat/internal/model"
)

const defaultLookback = 3 // months

// listCommits retrieves every commit whose effective timestamp falls in
// [start, end]. All pages are accumulated before filtering: hosting
// servers do not reliably support server-side date filtering, so inclusion
// is always decided client-side. Any page failure fails the whole listing
// closed rather than returning a silently truncated result.
func (a *Analyzer) listCommits(ctx context.Context, repo model.RepoRef, start, end time.Time) ([]*model.Commit, error) {
	var all []*model.Commit

	cursor := ""
	for page := 0; ; page++ {
		commits, next, err := a.provider.ListCommitsPage(ctx, repo, cursor)
		if err != nil {
			return nil, errm.Wrap(err, "failed to list commits")
		}
		all = append(all, commits...)

		a.log.Debug("fetched commit page", "repo", repo.String(), "page", page, "commits", len(commits))
		if next == "" {
			break
		}
		cursor = next
	}

	startMs := start.UnixMilli()
	endMs := end.UnixMilli()

	filtered := make([]*model.Commit, 0, len(all))
	for _, commit := range all {
		ts := commit.EffectiveTimestamp()
		if startMs <= ts && ts <= endMs {
			filtered = append(filtered, commit)
		}
	}

	a.log.Info("listed commits", "repo", repo.String(), "total", len(all), "in_range", len(filtered))
	return filtered, nil
}

// resolveWindow applies the default reporting window: three months back
// through the end of the current day.
func resolveWindow(start, end time.Time, now func() time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = now()
	}
	if start.IsZero() {
		start = end.AddDate(0, -defaultLookback, 0)
	}
	return start, end
}
