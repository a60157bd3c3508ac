// Package bitbucket implements the commit provider for self-hosted
// Bitbucket Server (Stash) instances, rest/api/1.0 dialect.
package bitbucket

import (
	"context"
	"fmt"
	"strconv"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/avolkov/locstat/internal/cache"
	"github.com/avolkov/locstat/internal/model"
	"github.com/avolkov/locstat/internal/model/interfaces"
	"github.com/avolkov/locstat/internal/provider/httpapi"
)

var _ interfaces.CommitProvider = (*Provider)(nil)

const (
	segmentAdded   = "ADDED"
	segmentRemoved = "REMOVED"
)

// Provider implements the CommitProvider interface for Bitbucket Server.
type Provider struct {
	client   *httpapi.Client
	config   model.ProviderConfig
	logger   logze.Logger
	pageSize int
}

// New creates a new Bitbucket Server provider.
func New(config model.ProviderConfig, respCache *cache.Cache) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("Bitbucket Server token is required")
	}
	if config.BaseURL == "" {
		return nil, errm.New("Bitbucket Server base URL is required")
	}
	log := logze.With("provider", "bitbucket-server")

	client, err := httpapi.New(config, respCache, log)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create Bitbucket Server client")
	}

	return &Provider{
		client:   client,
		config:   config,
		logger:   log,
		pageSize: config.PageSize,
	}, nil
}

// ListCommitsPage fetches one page of the repository commit log. The
// cursor is the numeric page start offset; "" means the first page.
// Server-side date filtering is deliberately not used: many Server
// instances mishandle the since parameter, so the analyzer filters by
// date in memory.
func (p *Provider) ListCommitsPage(ctx context.Context, repo model.RepoRef, cursor string) ([]*model.Commit, string, error) {
	start := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", errm.Wrap(err, "invalid page cursor")
		}
		start = parsed
	}

	apiURL := fmt.Sprintf("rest/api/1.0/projects/%s/repos/%s/commits", repo.Workspace, repo.Slug)
	params := map[string]string{
		"limit": strconv.Itoa(p.pageSize),
		"start": strconv.Itoa(start),
	}

	var page pagedResponse[serverCommit]
	if err := p.client.GetJSON(ctx, apiURL, params, &page); err != nil {
		return nil, "", err
	}

	commits := make([]*model.Commit, 0, len(page.Values))
	for i := range page.Values {
		commits = append(commits, convertCommit(&page.Values[i]))
	}

	next := ""
	if !page.IsLastPage && len(page.Values) > 0 {
		next = strconv.Itoa(page.NextPageStart)
	}
	return commits, next, nil
}

// GetCommitDetail fetches a single commit including its parents.
func (p *Provider) GetCommitDetail(ctx context.Context, repo model.RepoRef, commitID string) (*model.Commit, error) {
	apiURL := fmt.Sprintf("rest/api/1.0/projects/%s/repos/%s/commits/%s", repo.Workspace, repo.Slug, commitID)

	var commit serverCommit
	if err := p.client.GetJSON(ctx, apiURL, nil, &commit); err != nil {
		return nil, err
	}
	return convertCommit(&commit), nil
}

// GetCommitDiff returns per-file line counts from the structured diff
// representation: a textual count of ADDED and REMOVED segment lines, not
// a semantic LOC metric.
func (p *Provider) GetCommitDiff(ctx context.Context, repo model.RepoRef, commitID string) ([]model.FileDiffStat, error) {
	apiURL := fmt.Sprintf("rest/api/1.0/projects/%s/repos/%s/commits/%s/diff", repo.Workspace, repo.Slug, commitID)

	var diff serverDiffResponse
	if err := p.client.GetJSON(ctx, apiURL, nil, &diff); err != nil {
		return nil, err
	}

	stats := make([]model.FileDiffStat, 0, len(diff.Diffs))
	for _, file := range diff.Diffs {
		stat := model.FileDiffStat{Path: filePath(file)}
		for _, hunk := range file.Hunks {
			for _, segment := range hunk.Segments {
				switch segment.Type {
				case segmentAdded:
					stat.Additions += len(segment.Lines)
				case segmentRemoved:
					stat.Deletions += len(segment.Lines)
				}
			}
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// TestConnection probes the repository metadata endpoint.
func (p *Provider) TestConnection(ctx context.Context, repo model.RepoRef) error {
	apiURL := fmt.Sprintf("rest/api/1.0/projects/%s/repos/%s", repo.Workspace, repo.Slug)

	var repository serverRepository
	if err := p.client.GetJSON(ctx, apiURL, nil, &repository); err != nil {
		return errm.Wrap(err, "connection test failed")
	}
	return nil
}

// filePath resolves the changed file path, preferring the post-change
// side. Deleted files only carry a source path.
func filePath(diff serverDiff) string {
	if diff.Destination != nil && diff.Destination.ToString != "" {
		return diff.Destination.ToString
	}
	if diff.Source != nil {
		return diff.Source.ToString
	}
	return ""
}

func convertCommit(commit *serverCommit) *model.Commit {
	parents := make([]string, 0, len(commit.Parents))
	for _, parent := range commit.Parents {
		parents = append(parents, parent.ID)
	}

	committerTimestamp := commit.CommitterTimestamp
	if committerTimestamp == 0 {
		committerTimestamp = commit.AuthorTimestamp
	}

	return &model.Commit{
		ID:                 commit.ID,
		Message:            commit.Message,
		Author:             convertIdentity(commit.Author),
		Committer:          convertIdentity(commit.Committer),
		ParentIDs:          parents,
		AuthorTimestamp:    commit.AuthorTimestamp,
		CommitterTimestamp: committerTimestamp,
	}
}

func convertIdentity(identity serverIdentity) model.User {
	name := identity.DisplayName
	if name == "" {
		name = identity.Name
	}
	return model.User{Name: name, Email: identity.EmailAddress}
}
