package cloud

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/locstat/internal/cache"
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
	}, cache.New(cache.DefaultTTL))
	require.NoError(t, err)
	return p
}

func TestListCommitsPageFollowsNextURL(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repositories/acme/widget/commits", r.URL.Path)

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"values": [
				{"hash": "ccc", "date": "2024-03-03T10:00:00+00:00",
				 "author": {"raw": "Carol <carol@co.com>"}}
			]}`)
			return
		}

		assert.Equal(t, "2", r.URL.Query().Get("pagelen"))
		fmt.Fprintf(w, `{"values": [
			{"hash": "aaa", "date": "2024-03-05T10:00:00+00:00",
			 "committer_date": "2024-03-06T10:00:00+00:00",
			 "author": {"raw": "Smith, John <js@co.com>", "user": {"display_name": "John Smith"}}},
			{"hash": "bbb", "date": "2024-03-04T10:00:00+00:00",
			 "author": {"raw": "jdoe@co.com"}}
		], "next": %q}`, srv.URL+"/repositories/acme/widget/commits?page=2")
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	ctx := context.Background()

	commits, next, err := p.ListCommitsPage(ctx, testRepo, "")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	require.NotEmpty(t, next)

	first := commits[0]
	assert.Equal(t, "aaa", first.ID)
	assert.Equal(t, "John Smith", first.Author.Name, "account display name wins over the raw identity")
	assert.Equal(t, "js@co.com", first.Author.Email)

	wantAuthor := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli()
	wantCommitter := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, wantAuthor, first.AuthorTimestamp)
	assert.Equal(t, wantCommitter, first.EffectiveTimestamp())

	second := commits[1]
	assert.Equal(t, "jdoe@co.com", second.Author.Name, "raw identity without brackets is all name")
	assert.Equal(t, second.AuthorTimestamp, second.CommitterTimestamp, "missing committer date falls back to author")

	commits, next, err = p.ListCommitsPage(ctx, testRepo, next)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "ccc", commits[0].ID)
	assert.Empty(t, next)
}

func TestGetCommitDiffFollowsDiffstatPages(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repositories/acme/widget/diffstat/abc", r.URL.Path)

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"values": [
				{"status": "removed", "lines_added": 0, "lines_removed": 7, "old": {"path": "legacy/gone.go"}}
			]}`)
			return
		}
		fmt.Fprintf(w, `{"values": [
			{"status": "modified", "lines_added": 12, "lines_removed": 3,
			 "old": {"path": "pkg/old_name.go"}, "new": {"path": "pkg/main.go"}}
		], "next": %q}`, srv.URL+"/repositories/acme/widget/diffstat/abc?page=2")
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	files, err := p.GetCommitDiff(context.Background(), testRepo, "abc")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "pkg/main.go", files[0].Path, "new path wins over old")
	assert.Equal(t, 12, files[0].Additions)
	assert.Equal(t, 3, files[0].Deletions)

	assert.Equal(t, "legacy/gone.go", files[1].Path)
	assert.Equal(t, 7, files[1].Deletions)
}

func TestGetCommitDetailParsesParents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repositories/acme/widget/commit/merge1", r.URL.Path)
		fmt.Fprint(w, `{
			"hash": "merge1", "message": "Merge pull request #42",
			"date": "2024-03-05T10:00:00+00:00",
			"author": {"raw": "Alice <a@co.com>"},
			"parents": [{"hash": "p1"}, {"hash": "p2"}]
		}`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	commit, err := p.GetCommitDetail(context.Background(), testRepo, "merge1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, commit.ParentIDs)
	assert.True(t, commit.IsMerge())
}

func TestErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, _, err := p.ListCommitsPage(context.Background(), testRepo, "")
	assert.ErrorIs(t, err, model.ErrAuth)
}

func TestSplitRawIdentity(t *testing.T) {
	tests := []struct {
		raw       string
		wantName  string
		wantEmail string
	}{
		{"John Smith <js@co.com>", "John Smith", "js@co.com"},
		{"Smith, John <js@co.com>", "Smith, John", "js@co.com"},
		{"<js@co.com>", "js@co.com", "js@co.com"},
		{"jdoe@co.com", "jdoe@co.com", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, email := splitRawIdentity(tt.raw)
		assert.Equal(t, tt.wantName, name, tt.raw)
		assert.Equal(t, tt.wantEmail, email, tt.raw)
	}
}
