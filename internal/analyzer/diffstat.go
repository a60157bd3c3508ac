package analyzer

import (
	"context"
	"errors"
	"strings"

	"github.com/avolkov/locstat/internal/model"
)

// skipExtensions lists binary and generated artifacts excluded from line
// counts regardless of any caller-supplied extension filter.
var skipExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".bmp", ".tiff",
	".zip", ".tar", ".gz", ".rar", ".7z", ".jar", ".war", ".ear",
	".class", ".pyc", ".pyo", ".o", ".obj", ".dll", ".exe", ".so", ".dylib",
	".min.js", ".min.css", ".pdf", ".doc", ".docx", ".ppt", ".pptx",
	".xls", ".xlsx", ".svg", ".ttf", ".woff", ".woff2", ".eot",
	".mp3", ".mp4", ".avi", ".mov", ".flv", ".webm", ".lock",
}

// skipPaths lists generated or vendored directories excluded from line
// counts.
var skipPaths = []string{
	"node_modules/", "dist/", "build/", "target/", "__pycache__/",
	".git/", ".svn/", ".idea/", ".vscode/", ".gradle/",
	"vendor/", "bin/", "obj/",
}

// resolveDiffStat computes added/removed line counts for one commit.
// Merge commits yield {0,0} unconditionally: their changes are already
// attributed to the commits they merge. Any per-commit fetch failure other
// than an auth rejection also degrades to {0,0} so a single bad commit
// never aborts the batch.
func (a *Analyzer) resolveDiffStat(ctx context.Context, repo model.RepoRef, commitID string, extensions []string) (model.DiffStat, error) {
	detail, err := a.provider.GetCommitDetail(ctx, repo, commitID)
	if err != nil {
		return model.DiffStat{}, err
	}
	if len(detail.ParentIDs) > 1 {
		return model.DiffStat{}, nil
	}

	files, err := a.provider.GetCommitDiff(ctx, repo, commitID)
	if err != nil {
		return model.DiffStat{}, err
	}

	var stat model.DiffStat
	for _, file := range files {
		if shouldSkipFile(file.Path) {
			continue
		}
		if len(extensions) > 0 && !hasAnySuffix(file.Path, extensions) {
			continue
		}
		stat.Additions += file.Additions
		stat.Deletions += file.Deletions
	}
	return stat, nil
}

// diffStatOrZero is resolveDiffStat with the per-unit degradation policy
// applied: only auth errors propagate, everything else is logged and
// zeroed.
func (a *Analyzer) diffStatOrZero(ctx context.Context, repo model.RepoRef, commitID string, extensions []string) (model.DiffStat, error) {
	stat, err := a.resolveDiffStat(ctx, repo, commitID, extensions)
	if err == nil {
		return stat, nil
	}
	if errors.Is(err, model.ErrAuth) {
		return model.DiffStat{}, err
	}
	if errors.Is(err, model.ErrNotFound) {
		a.log.Warn("commit vanished, counting zero lines", "repo", repo.String(), "commit", commitID)
	} else {
		a.log.Error("failed to resolve commit diff, counting zero lines",
			"repo", repo.String(), "commit", commitID, "error", err)
	}
	return model.DiffStat{}, nil
}

// shouldSkipFile identifies binary and generated files to exclude from
// line counting.
func shouldSkipFile(path string) bool {
	if path == "" {
		return false
	}
	lower := strings.ToLower(path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, dir := range skipPaths {
		if strings.Contains(path, dir) {
			return true
		}
	}
	return false
}

func hasAnySuffix(path string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
