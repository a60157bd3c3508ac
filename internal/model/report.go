package model

import "time"

// RepoRef identifies one repository on the hosting server.
// Workspace is the project key on Bitbucket Server, the workspace on
// Bitbucket Cloud and the owner on GitHub.
type RepoRef struct {
	Workspace string `json:"workspace" yaml:"workspace"`
	Slug      string `json:"slug" yaml:"slug"`
}

func (r RepoRef) String() string {
	return r.Workspace + "/" + r.Slug
}

// GroupBy defines the date bucket size for aggregation.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// DiffStat holds added/removed line counts for a single commit.
// Merge commits always carry {0, 0}: their content is attributed through
// the commits they merge.
type DiffStat struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Add accumulates another stat into this one.
func (s *DiffStat) Add(other DiffStat) {
	s.Additions += other.Additions
	s.Deletions += other.Deletions
}

// Total returns the combined number of changed lines.
func (s DiffStat) Total() int {
	return s.Additions + s.Deletions
}

// FileDiffStat is a per-file slice of a commit diff, before any
// extension or denylist filtering.
type FileDiffStat struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// DailyAggregate is one date bucket summed across all authors.
type DailyAggregate struct {
	Date      time.Time `json:"date"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
}

// AttributionRecord is one (date bucket, author) row of the attribution
// output. AuthorName is the raw display name observed on the commits:
// distinct spellings of the same person stay distinct unless the run was
// pre-filtered by a focus identity.
type AttributionRecord struct {
	Date        time.Time `json:"date"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Additions   int       `json:"additions"`
	Deletions   int       `json:"deletions"`
	CommitCount int       `json:"commit_count"`
}

// Report bundles the two output tables of a single analysis run.
type Report struct {
	Repo     RepoRef             `json:"repo"`
	GroupBy  GroupBy             `json:"group_by"`
	Timeline []DailyAggregate    `json:"timeline"`
	Authors  []AttributionRecord `json:"authors"`

	RangeStart time.Time `json:"range_start"`
	RangeEnd   time.Time `json:"range_end"`

	// TotalCommits counts commits that contributed to the tables after
	// focus and merge filtering.
	TotalCommits int `json:"total_commits"`
}
