package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/maxbolgarin/errm"

	"github.com/avolkov/locstat/internal/model"
)

// maxChartAuthors keeps the contributors bar chart readable.
const maxChartAuthors = 20

// RenderCharts writes an HTML page with the timeline and top-contributors
// charts for one report and returns its path.
func RenderCharts(report *model.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errm.Wrap(err, "failed to create output directory")
	}

	page := components.NewPage()
	page.SetPageTitle("Contribution report: " + report.Repo.String())
	page.AddCharts(timelineChart(report), contributorsChart(report))

	path := filepath.Join(dir, report.Repo.Slug+"_report.html")
	file, err := os.Create(path)
	if err != nil {
		return "", errm.Wrap(err, "failed to create chart file")
	}
	defer file.Close()

	if err := page.Render(file); err != nil {
		return "", errm.Wrap(err, "failed to render charts")
	}
	return path, nil
}

func timelineChart(report *model.Report) *charts.Line {
	labels := make([]string, len(report.Timeline))
	additions := make([]opts.LineData, len(report.Timeline))
	deletions := make([]opts.LineData, len(report.Timeline))
	for i, agg := range report.Timeline {
		labels[i] = agg.Date.Format(dateLayout)
		additions[i] = opts.LineData{Value: agg.Additions}
		deletions[i] = opts.LineData{Value: agg.Deletions}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Lines changed over time",
			Subtitle: fmt.Sprintf("%s, grouped by %s", report.Repo.String(), report.GroupBy),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Additions", additions,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.AddSeries("Deletions", deletions,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}

func contributorsChart(report *model.Report) *charts.Bar {
	totals := authorTotals(report)
	if len(totals) > maxChartAuthors {
		totals = totals[:maxChartAuthors]
	}

	labels := make([]string, len(totals))
	additions := make([]opts.BarData, len(totals))
	deletions := make([]opts.BarData, len(totals))
	for i, total := range totals {
		labels[i] = total.Name
		additions[i] = opts.BarData{Value: total.Additions}
		deletions[i] = opts.BarData{Value: total.Deletions}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Top contributors",
			Subtitle: report.Repo.String(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Additions", additions)
	bar.AddSeries("Deletions", deletions)

	return bar
}
