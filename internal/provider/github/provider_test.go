package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/locstat/internal/model"
)

var testRepo = model.RepoRef{Workspace: "acme", Slug: "widget"}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := New(model.ProviderConfig{
		BaseURL:        baseURL,
		Token:          "secret",
		RequestTimeout: 5 * time.Second,
		PageSize:       2,
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(model.ProviderConfig{})
	assert.Error(t, err)
}

func TestListCommitsPage(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/acme/widget/commits", r.URL.Path)

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"sha": "ccc", "commit": {"message": "third",
				"author": {"name": "Carol", "email": "c@co.com", "date": "2024-03-03T10:00:00Z"}}}]`)
			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<%s/api/v3/repos/acme/widget/commits?page=2>; rel="next"`, srv.URL))
		fmt.Fprint(w, `[
			{
				"sha": "aaa",
				"commit": {
					"message": "first",
					"author": {"name": "Alice", "email": "a@co.com", "date": "2024-03-05T10:00:00Z"},
					"committer": {"name": "Bob", "email": "b@co.com", "date": "2024-03-06T10:00:00Z"}
				},
				"parents": [{"sha": "p1"}]
			},
			{
				"sha": "bbb",
				"commit": {
					"message": "second",
					"author": {"name": "Alice", "email": "a@co.com", "date": "2024-03-04T10:00:00Z"}
				}
			}
		]`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	ctx := context.Background()

	commits, next, err := p.ListCommitsPage(ctx, testRepo, "")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "2", next)

	first := commits[0]
	assert.Equal(t, "aaa", first.ID)
	assert.Equal(t, "Alice", first.Author.Name)
	assert.Equal(t, []string{"p1"}, first.ParentIDs)

	wantCommitter := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, wantCommitter, first.EffectiveTimestamp(), "committer date wins")

	commits, next, err = p.ListCommitsPage(ctx, testRepo, next)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Empty(t, next, "last page carries no cursor")
}

func TestGetCommitDiffUsesFileAnnotations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/acme/widget/commits/abc", r.URL.Path)
		fmt.Fprint(w, `{
			"sha": "abc",
			"commit": {"author": {"name": "Alice", "date": "2024-03-05T10:00:00Z"}},
			"files": [
				{"filename": "pkg/main.go", "additions": 12, "deletions": 3},
				{"filename": "docs/readme.md", "additions": 1, "deletions": 0}
			]
		}`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	files, err := p.GetCommitDiff(context.Background(), testRepo, "abc")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "pkg/main.go", files[0].Path)
	assert.Equal(t, 12, files[0].Additions)
	assert.Equal(t, 3, files[0].Deletions)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, model.ErrAuth},
		{"not found", http.StatusNotFound, model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message": "nope"}`)
			}))
			defer srv.Close()

			p := newTestProvider(t, srv.URL)
			_, err := p.GetCommitDetail(context.Background(), testRepo, "abc")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
