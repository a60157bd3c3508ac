// Package report renders analysis results: CSV files for spreadsheets,
// an HTML chart page for humans and a console summary table.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/maxbolgarin/errm"

	"github.com/avolkov/locstat/internal/model"
)

const dateLayout = "2006-01-02"

// WriteCSV writes the timeline and attribution tables as two CSV files in
// dir and returns their paths.
func WriteCSV(report *model.Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errm.Wrap(err, "failed to create output directory")
	}

	prefix := report.Repo.Slug
	if prefix == "" {
		prefix = "report"
	}

	timelinePath := filepath.Join(dir, fmt.Sprintf("%s_timeline_%s.csv", prefix, report.GroupBy))
	if err := writeTimelineCSV(report, timelinePath); err != nil {
		return nil, err
	}

	authorsPath := filepath.Join(dir, prefix+"_contributors.csv")
	if err := writeAuthorsCSV(report, authorsPath); err != nil {
		return nil, err
	}

	return []string{timelinePath, authorsPath}, nil
}

func writeTimelineCSV(report *model.Report, path string) error {
	return writeRecords(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"date", "additions", "deletions"}); err != nil {
			return err
		}
		for _, agg := range report.Timeline {
			row := []string{
				agg.Date.Format(dateLayout),
				strconv.Itoa(agg.Additions),
				strconv.Itoa(agg.Deletions),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAuthorsCSV(report *model.Report, path string) error {
	return writeRecords(path, func(w *csv.Writer) error {
		header := []string{"date", "author_name", "author_email", "commits", "additions", "deletions", "total_changes"}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, record := range report.Authors {
			row := []string{
				record.Date.Format(dateLayout),
				record.AuthorName,
				record.AuthorEmail,
				strconv.Itoa(record.CommitCount),
				strconv.Itoa(record.Additions),
				strconv.Itoa(record.Deletions),
				strconv.Itoa(record.Additions + record.Deletions),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRecords(path string, write func(w *csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return errm.Wrap(err, "failed to create CSV file")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := write(w); err != nil {
		return errm.Wrap(err, "failed to write CSV rows")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errm.Wrap(err, "failed to flush CSV")
	}
	return nil
}
