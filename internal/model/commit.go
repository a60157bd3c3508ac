package model

import (
	"strings"
	"time"
)

// User is a commit identity as reported by the hosting server. There is no
// stable cross-commit user id: the server stores whatever string the pusher
// configured, so the same person may appear under several names.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit represents one commit as reported by the hosting API.
type Commit struct {
	ID        string   `json:"id"`
	Message   string   `json:"message"`
	Author    User     `json:"author"`
	Committer User     `json:"committer"`
	ParentIDs []string `json:"parent_ids"`

	// Epoch milliseconds. Committer timestamp may differ from the author
	// one for merged or rebased commits.
	AuthorTimestamp    int64 `json:"author_timestamp"`
	CommitterTimestamp int64 `json:"committer_timestamp"`
}

// EffectiveTimestamp returns the later of the author and committer
// timestamps. All date-range inclusion and bucketing uses this value: a
// commit merged later must land in the report covering the merge date.
func (c *Commit) EffectiveTimestamp() int64 {
	if c.CommitterTimestamp > c.AuthorTimestamp {
		return c.CommitterTimestamp
	}
	return c.AuthorTimestamp
}

// EffectiveTime is EffectiveTimestamp as a time.Time.
func (c *Commit) EffectiveTime() time.Time {
	return time.UnixMilli(c.EffectiveTimestamp())
}

// IsMerge reports whether the commit is a merge commit. Parent count is
// authoritative; the message prefix is a fallback for list payloads that
// omit parents.
func (c *Commit) IsMerge() bool {
	if len(c.ParentIDs) > 0 {
		return len(c.ParentIDs) > 1
	}
	return strings.HasPrefix(c.Message, "Merge ")
}
