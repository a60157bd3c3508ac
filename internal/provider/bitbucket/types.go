package bitbucket

// Bitbucket Server (Stash) REST API payloads, rest/api/1.0 dialect.

type pagedResponse[T any] struct {
	Values        []T  `json:"values"`
	Size          int  `json:"size"`
	IsLastPage    bool `json:"isLastPage"`
	NextPageStart int  `json:"nextPageStart"`
}

type serverIdentity struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

type serverCommit struct {
	ID                 string         `json:"id"`
	DisplayID          string         `json:"displayId"`
	Message            string         `json:"message"`
	Author             serverIdentity `json:"author"`
	Committer          serverIdentity `json:"committer"`
	AuthorTimestamp    int64          `json:"authorTimestamp"`
	CommitterTimestamp int64          `json:"committerTimestamp"`
	Parents            []struct {
		ID string `json:"id"`
	} `json:"parents"`
}

type serverPath struct {
	ToString string `json:"toString"`
}

type serverDiffResponse struct {
	Diffs []serverDiff `json:"diffs"`
}

type serverDiff struct {
	Source      *serverPath  `json:"source"`
	Destination *serverPath  `json:"destination"`
	Binary      bool         `json:"binary"`
	Hunks       []serverHunk `json:"hunks"`
}

type serverHunk struct {
	Segments []serverSegment `json:"segments"`
}

type serverSegment struct {
	Type  string `json:"type"` // ADDED, REMOVED or CONTEXT
	Lines []struct {
		Line string `json:"line"`
	} `json:"lines"`
}

type serverRepository struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}
