// Package github implements the commit provider for GitHub and GitHub
// Enterprise through the REST v3 API.
package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"golang.org/x/oauth2"

	"github.com/avolkov/locstat/internal/model"
	"github.com/avolkov/locstat/internal/model/interfaces"
)

var _ interfaces.CommitProvider = (*Provider)(nil)

// Provider implements the CommitProvider interface for GitHub.
// The go-github client owns its transport, so the shared response cache
// is not wired here; the library's conditional requests cover re-fetches.
type Provider struct {
	client   *github.Client
	config   model.ProviderConfig
	logger   logze.Logger
	pageSize int
}

// New creates a new GitHub provider.
func New(config model.ProviderConfig) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("GitHub token is required")
	}
	log := logze.With("provider", "github")

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	if config.BaseURL != "" {
		var err error
		client, err = github.NewClient(tc).WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create GitHub Enterprise client")
		}
	}

	return &Provider{
		client:   client,
		config:   config,
		logger:   log,
		pageSize: config.PageSize,
	}, nil
}

// ListCommitsPage fetches one page of the commit log. The cursor is the
// numeric page returned by the previous call; "" means the first page.
func (p *Provider) ListCommitsPage(ctx context.Context, repo model.RepoRef, cursor string) ([]*model.Commit, string, error) {
	page := 1
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", errm.Wrap(err, "invalid page cursor")
		}
		page = parsed
	}

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: p.pageSize, Page: page},
	}
	commits, resp, err := p.client.Repositories.ListCommits(ctx, repo.Workspace, repo.Slug, opts)
	if err != nil {
		return nil, "", classifyError(err)
	}

	result := make([]*model.Commit, 0, len(commits))
	for _, commit := range commits {
		result = append(result, convertCommit(commit))
	}

	next := ""
	if resp.NextPage > 0 {
		next = strconv.Itoa(resp.NextPage)
	}
	return result, next, nil
}

// GetCommitDetail fetches a single commit including its parents.
func (p *Provider) GetCommitDetail(ctx context.Context, repo model.RepoRef, commitID string) (*model.Commit, error) {
	commit, _, err := p.client.Repositories.GetCommit(ctx, repo.Workspace, repo.Slug, commitID, nil)
	if err != nil {
		return nil, classifyError(err)
	}
	return convertCommit(commit), nil
}

// GetCommitDiff returns per-file line counts from the commit detail
// payload, which GitHub annotates with per-file additions and deletions.
func (p *Provider) GetCommitDiff(ctx context.Context, repo model.RepoRef, commitID string) ([]model.FileDiffStat, error) {
	commit, _, err := p.client.Repositories.GetCommit(ctx, repo.Workspace, repo.Slug, commitID, nil)
	if err != nil {
		return nil, classifyError(err)
	}

	stats := make([]model.FileDiffStat, 0, len(commit.Files))
	for _, file := range commit.Files {
		stats = append(stats, model.FileDiffStat{
			Path:      file.GetFilename(),
			Additions: file.GetAdditions(),
			Deletions: file.GetDeletions(),
		})
	}
	return stats, nil
}

// TestConnection probes the repository metadata endpoint.
func (p *Provider) TestConnection(ctx context.Context, repo model.RepoRef) error {
	_, _, err := p.client.Repositories.Get(ctx, repo.Workspace, repo.Slug)
	if err != nil {
		return errm.Wrap(classifyError(err), "connection test failed")
	}
	return nil
}

// classifyError maps go-github errors onto the model error taxonomy.
func classifyError(err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return model.ErrAuth
		case http.StatusNotFound:
			return model.ErrNotFound
		}
	}
	return err
}

func convertCommit(commit *github.RepositoryCommit) *model.Commit {
	parents := make([]string, 0, len(commit.Parents))
	for _, parent := range commit.Parents {
		parents = append(parents, parent.GetSHA())
	}

	inner := commit.GetCommit()

	var authorTS, committerTS int64
	author := model.User{}
	committer := model.User{}
	if a := inner.GetAuthor(); a != nil {
		author = model.User{Name: a.GetName(), Email: a.GetEmail()}
		authorTS = a.GetDate().UnixMilli()
	}
	if c := inner.GetCommitter(); c != nil {
		committer = model.User{Name: c.GetName(), Email: c.GetEmail()}
		committerTS = c.GetDate().UnixMilli()
	}
	// Prefer the account login over the raw git name when linked.
	if commit.GetAuthor().GetLogin() != "" && author.Name == "" {
		author.Name = commit.GetAuthor().GetLogin()
	}
	if committerTS == 0 {
		committerTS = authorTS
	}

	return &model.Commit{
		ID:                 commit.GetSHA(),
		Message:            inner.GetMessage(),
		Author:             author,
		Committer:          committer,
		ParentIDs:          parents,
		AuthorTimestamp:    authorTS,
		CommitterTimestamp: committerTS,
	}
}
