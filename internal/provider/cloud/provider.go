// Package cloud implements the commit provider for Bitbucket Cloud,
// 2.0 dialect.
package cloud

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"

	"github.com/avolkov/locstat/internal/cache"
	"github.com/avolkov/locstat/internal/model"
	"github.com/avolkov/locstat/internal/model/interfaces"
	"github.com/avolkov/locstat/internal/provider/httpapi"
)

var _ interfaces.CommitProvider = (*Provider)(nil)

const defaultBaseURL = "https://api.bitbucket.org/2.0"

// Provider implements the CommitProvider interface for Bitbucket Cloud.
type Provider struct {
	client   *httpapi.Client
	config   model.ProviderConfig
	logger   logze.Logger
	pageSize int
}

// New creates a new Bitbucket Cloud provider.
func New(config model.ProviderConfig, respCache *cache.Cache) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("Bitbucket Cloud token is required")
	}
	config.BaseURL = lang.Check(strings.TrimSuffix(config.BaseURL, "/"), defaultBaseURL)
	log := logze.With("provider", "bitbucket-cloud")

	client, err := httpapi.New(config, respCache, log)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create Bitbucket Cloud client")
	}

	return &Provider{
		client:   client,
		config:   config,
		logger:   log,
		pageSize: config.PageSize,
	}, nil
}

// ListCommitsPage fetches one page of the commit log. Cloud pagination is
// cursor-by-URL: the cursor is the absolute next-page URL returned by the
// previous page, "" for the first page.
func (p *Provider) ListCommitsPage(ctx context.Context, repo model.RepoRef, cursor string) ([]*model.Commit, string, error) {
	apiURL := cursor
	var params map[string]string
	if apiURL == "" {
		apiURL = fmt.Sprintf("repositories/%s/%s/commits", repo.Workspace, repo.Slug)
		params = map[string]string{"pagelen": strconv.Itoa(p.pageSize)}
	}

	var page pagedResponse[cloudCommit]
	if err := p.client.GetJSON(ctx, apiURL, params, &page); err != nil {
		return nil, "", err
	}

	commits := make([]*model.Commit, 0, len(page.Values))
	for i := range page.Values {
		commits = append(commits, p.convertCommit(&page.Values[i]))
	}
	return commits, page.Next, nil
}

// GetCommitDetail fetches a single commit including its parents.
func (p *Provider) GetCommitDetail(ctx context.Context, repo model.RepoRef, commitID string) (*model.Commit, error) {
	apiURL := fmt.Sprintf("repositories/%s/%s/commit/%s", repo.Workspace, repo.Slug, commitID)

	var commit cloudCommit
	if err := p.client.GetJSON(ctx, apiURL, nil, &commit); err != nil {
		return nil, err
	}
	return p.convertCommit(&commit), nil
}

// GetCommitDiff returns per-file line counts from the diffstat endpoint,
// following its pagination.
func (p *Provider) GetCommitDiff(ctx context.Context, repo model.RepoRef, commitID string) ([]model.FileDiffStat, error) {
	apiURL := fmt.Sprintf("repositories/%s/%s/diffstat/%s", repo.Workspace, repo.Slug, commitID)

	var stats []model.FileDiffStat
	for apiURL != "" {
		var page pagedResponse[cloudDiffStat]
		if err := p.client.GetJSON(ctx, apiURL, nil, &page); err != nil {
			return nil, err
		}
		for _, file := range page.Values {
			stats = append(stats, model.FileDiffStat{
				Path:      diffStatPath(file),
				Additions: file.LinesAdded,
				Deletions: file.LinesRemoved,
			})
		}
		apiURL = page.Next
	}
	return stats, nil
}

// TestConnection probes the repository metadata endpoint.
func (p *Provider) TestConnection(ctx context.Context, repo model.RepoRef) error {
	apiURL := fmt.Sprintf("repositories/%s/%s", repo.Workspace, repo.Slug)

	var repository cloudRepository
	if err := p.client.GetJSON(ctx, apiURL, nil, &repository); err != nil {
		return errm.Wrap(err, "connection test failed")
	}
	return nil
}

func diffStatPath(file cloudDiffStat) string {
	if file.New != nil && file.New.Path != "" {
		return file.New.Path
	}
	if file.Old != nil {
		return file.Old.Path
	}
	return ""
}

func (p *Provider) convertCommit(commit *cloudCommit) *model.Commit {
	parents := make([]string, 0, len(commit.Parents))
	for _, parent := range commit.Parents {
		parents = append(parents, parent.Hash)
	}

	authorTS := p.parseTimestamp(commit.Hash, commit.Date)
	committerTS := authorTS
	if commit.CommitterDate != "" {
		committerTS = p.parseTimestamp(commit.Hash, commit.CommitterDate)
	}

	authorName, authorEmail := splitRawIdentity(commit.Author.Raw)
	if commit.Author.User.DisplayName != "" {
		authorName = commit.Author.User.DisplayName
	}
	committerName, committerEmail := splitRawIdentity(commit.Committer.Raw)
	if commit.Committer.User.DisplayName != "" {
		committerName = commit.Committer.User.DisplayName
	}

	return &model.Commit{
		ID:                 commit.Hash,
		Message:            commit.Message,
		Author:             model.User{Name: authorName, Email: authorEmail},
		Committer:          model.User{Name: committerName, Email: committerEmail},
		ParentIDs:          parents,
		AuthorTimestamp:    authorTS,
		CommitterTimestamp: committerTS,
	}
}

func (p *Provider) parseTimestamp(commitID, value string) int64 {
	if value == "" {
		return 0
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		p.logger.Debug("unparsable commit date", "commit", commitID, "date", value)
		return 0
	}
	return ts.UnixMilli()
}

// splitRawIdentity parses the Cloud "Name <email>" raw identity format.
func splitRawIdentity(raw string) (name, email string) {
	raw = strings.TrimSpace(raw)
	open := strings.LastIndex(raw, "<")
	if open < 0 {
		return raw, ""
	}
	name = strings.TrimSpace(raw[:open])
	email = strings.TrimSuffix(strings.TrimSpace(raw[open+1:]), ">")
	if name == "" {
		name = email
	}
	return name, email
}
