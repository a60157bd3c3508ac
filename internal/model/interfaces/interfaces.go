package interfaces

import (
	"context"

	"github.com/avolkov/locstat/internal/model"
)

// CommitProvider defines the operations the analyzer needs from a hosting
// server. Each hosting dialect (Bitbucket Server, Bitbucket Cloud, GitHub)
// implements it once; the analyzer never branches on the dialect.
type CommitProvider interface {
	// ListCommitsPage fetches one page of the repository commit log.
	// The cursor is opaque and dialect-specific: pass "" for the first
	// page and the returned cursor for the next one. An empty returned
	// cursor means there are no further pages.
	ListCommitsPage(ctx context.Context, repo model.RepoRef, cursor string) ([]*model.Commit, string, error)

	// GetCommitDetail fetches a single commit including its parent ids.
	GetCommitDetail(ctx context.Context, repo model.RepoRef, commitID string) (*model.Commit, error)

	// GetCommitDiff returns per-file added/removed line counts for a
	// commit, unfiltered.
	GetCommitDiff(ctx context.Context, repo model.RepoRef, commitID string) ([]model.FileDiffStat, error)

	// TestConnection performs a cheap probe of the repository, used to
	// validate credentials and the repository reference.
	TestConnection(ctx context.Context, repo model.RepoRef) error
}
