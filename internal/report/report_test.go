package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/locstat/internal/model"
)

func sampleReport() *model.Report {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	}
	return &model.Report{
		Repo:       model.RepoRef{Workspace: "TEAM", Slug: "service"},
		GroupBy:    model.GroupByDay,
		RangeStart: day(1),
		RangeEnd:   day(31),
		Timeline: []model.DailyAggregate{
			{Date: day(4), Additions: 30, Deletions: 3},
			{Date: day(5), Additions: 10, Deletions: 1},
		},
		Authors: []model.AttributionRecord{
			{Date: day(4), AuthorName: "Bob", AuthorEmail: "b@co.com", Additions: 30, Deletions: 3, CommitCount: 2},
			{Date: day(5), AuthorName: "Alice", AuthorEmail: "a@co.com", Additions: 10, Deletions: 1, CommitCount: 1},
			{Date: day(4), AuthorName: "Alice", AuthorEmail: "a@co.com", Additions: 5, Deletions: 0, CommitCount: 1},
		},
		TotalCommits: 4,
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteCSV(sampleReport(), dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, filepath.Join(dir, "service_timeline_day.csv"), paths[0])
	assert.Equal(t, filepath.Join(dir, "service_contributors.csv"), paths[1])

	rows := readCSV(t, paths[0])
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "additions", "deletions"}, rows[0])
	assert.Equal(t, []string{"2024-03-04", "30", "3"}, rows[1])
	assert.Equal(t, []string{"2024-03-05", "10", "1"}, rows[2])

	rows = readCSV(t, paths[1])
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2024-03-04", "Bob", "b@co.com", "2", "30", "3", "33"}, rows[1])
}

func TestWriteCSVCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := WriteCSV(sampleReport(), dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestAuthorTotals(t *testing.T) {
	totals := authorTotals(sampleReport())
	require.Len(t, totals, 2)

	assert.Equal(t, "Bob", totals[0].Name, "largest contributor first")
	assert.Equal(t, 33, totals[0].Additions+totals[0].Deletions)

	alice := totals[1]
	assert.Equal(t, 2, alice.Commits, "buckets of the same author collapse")
	assert.Equal(t, 15, alice.Additions)
	assert.Equal(t, 1, alice.Deletions)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleReport())

	out := buf.String()
	assert.Contains(t, out, "TEAM/service")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "2024-03-01")
}

func TestRenderCharts(t *testing.T) {
	dir := t.TempDir()
	path, err := RenderCharts(sampleReport(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "service_report.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2024-03-04")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}
