package cloud

// Bitbucket Cloud REST API payloads, 2.0 dialect.

type pagedResponse[T any] struct {
	Values  []T    `json:"values"`
	Next    string `json:"next"`
	PageLen int    `json:"pagelen"`
}

type cloudCommit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Author  struct {
		Raw  string `json:"raw"` // "Name <email>"
		User struct {
			DisplayName string `json:"display_name"`
		} `json:"user"`
	} `json:"author"`
	Committer struct {
		Raw  string `json:"raw"`
		User struct {
			DisplayName string `json:"display_name"`
		} `json:"user"`
	} `json:"committer"`
	CommitterDate string `json:"committer_date"`
	Parents       []struct {
		Hash string `json:"hash"`
	} `json:"parents"`
}

type cloudDiffStat struct {
	Status       string `json:"status"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
	Old          *struct {
		Path string `json:"path"`
	} `json:"old"`
	New *struct {
		Path string `json:"path"`
	} `json:"new"`
}

type cloudRepository struct {
	Slug     string `json:"slug"`
	FullName string `json:"full_name"`
}
