package main

import (
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"

	"github.com/avolkov/locstat/internal/analyzer"
	"github.com/avolkov/locstat/internal/app"
	"github.com/avolkov/locstat/internal/config"
	"github.com/avolkov/locstat/internal/model"
)

var (
	Version, Branch, Commit, BuildDate string
)

var (
	configPath = kingpin.Flag("config", "path to config file").Short('c').String()
	serve      = kingpin.Flag("serve", "start the analysis API server instead of a one-shot run").Bool()
	checkOnly  = kingpin.Flag("check", "only test the connection to the repository").Bool()
	verbose    = kingpin.Flag("verbose", "enable debug logging").Short('v').Bool()

	repoRef    = kingpin.Flag("repo", "repository as workspace/slug (project key and slug for Bitbucket Server)").Short('r').String()
	startDate  = kingpin.Flag("start", "start date, YYYY-MM-DD (default: 3 months ago)").String()
	endDate    = kingpin.Flag("end", "end date, YYYY-MM-DD (default: today)").String()
	groupBy    = kingpin.Flag("group-by", "date bucket size: day, week or month").Default("day").Enum("day", "week", "month")
	focusUser  = kingpin.Flag("focus", "focus on one contributor (name or email, fuzzy matched)").String()
	extensions = kingpin.Flag("extensions", "comma-separated file extension allow-list, e.g. .go,.py").String()
	noMerges   = kingpin.Flag("ignore-merges", "drop merge commits from the report").Bool()
)

func main() {
	kingpin.Version(Version)
	kingpin.Parse()

	var err error
	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()), contem.Exit(&err))
	defer ctx.Shutdown()
	err = run(ctx)
	if err != nil {
		logze.DefaultPtr().Error("cannot run", "error", err)
	}
}

func run(ctx contem.Context) error {
	level := logze.LevelInfo
	if *verbose {
		level = logze.LevelDebug
	}
	logze.Init(logze.C().WithConsole().WithLevel(level))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}

	service, err := app.New(ctx, cfg)
	if err != nil {
		return erro.Wrap(err, "create app")
	}

	if *serve {
		return service.StartServer(ctx)
	}

	repo, err := parseRepo(*repoRef)
	if err != nil {
		return err
	}

	if *checkOnly {
		return service.TestConnection(ctx, repo)
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}
	return service.RunAnalysis(ctx, repo, opts)
}

func parseRepo(ref string) (model.RepoRef, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.RepoRef{}, erro.New("--repo must be workspace/slug, got %q", ref)
	}
	return model.RepoRef{Workspace: parts[0], Slug: parts[1]}, nil
}

func buildOptions() (analyzer.Options, error) {
	start, end, err := analyzer.ParseDateRange(*startDate, *endDate)
	if err != nil {
		return analyzer.Options{}, erro.Wrap(err, "parse date range")
	}

	opts := analyzer.Options{
		StartDate:     start,
		EndDate:       end,
		GroupBy:       model.GroupBy(*groupBy),
		FocusIdentity: *focusUser,
		IgnoreMerges:  *noMerges,
	}
	if *extensions != "" {
		for _, ext := range strings.Split(*extensions, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				opts.FileExtensions = append(opts.FileExtensions, ext)
			}
		}
	}
	return opts, nil
}
