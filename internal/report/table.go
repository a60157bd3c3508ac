package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/avolkov/locstat/internal/model"
)

// AuthorTotal collapses the per-bucket attribution rows of one author
// into a run-wide total, for summary display.
type AuthorTotal struct {
	Name      string
	Email     string
	Commits   int
	Additions int
	Deletions int
}

// authorTotals sums attribution rows per author, ordered by total lines
// changed, descending.
func authorTotals(report *model.Report) []AuthorTotal {
	byName := make(map[string]*AuthorTotal)
	order := make([]string, 0)

	for _, record := range report.Authors {
		total := byName[record.AuthorName]
		if total == nil {
			total = &AuthorTotal{Name: record.AuthorName, Email: record.AuthorEmail}
			byName[record.AuthorName] = total
			order = append(order, record.AuthorName)
		}
		total.Commits += record.CommitCount
		total.Additions += record.Additions
		total.Deletions += record.Deletions
	}

	totals := make([]AuthorTotal, 0, len(order))
	for _, name := range order {
		totals = append(totals, *byName[name])
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Additions+totals[i].Deletions > totals[j].Additions+totals[j].Deletions
	})
	return totals
}

// PrintSummary writes a per-author summary table for the report.
func PrintSummary(w io.Writer, report *model.Report) {
	var totalAdd, totalDel, totalCommits int

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("%s (%s to %s)",
		report.Repo.String(),
		report.RangeStart.Format(dateLayout),
		report.RangeEnd.Format(dateLayout)))
	tbl.AppendHeader(table.Row{"Author", "Email", "Commits", "Additions", "Deletions", "Total"})

	for _, total := range authorTotals(report) {
		tbl.AppendRow(table.Row{
			total.Name, total.Email, total.Commits,
			total.Additions, total.Deletions,
			total.Additions + total.Deletions,
		})
		totalAdd += total.Additions
		totalDel += total.Deletions
		totalCommits += total.Commits
	}

	tbl.AppendFooter(table.Row{"Total", "", totalCommits, totalAdd, totalDel, totalAdd + totalDel})
	tbl.Render()
}
