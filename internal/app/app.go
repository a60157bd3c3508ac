// Package app wires the components together: provider, cache, analyzer,
// report rendering and the optional API server.
package app

import (
	"context"
	"os"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/avolkov/locstat/internal/analyzer"
	"github.com/avolkov/locstat/internal/cache"
	"github.com/avolkov/locstat/internal/config"
	"github.com/avolkov/locstat/internal/model"
	"github.com/avolkov/locstat/internal/model/interfaces"
	"github.com/avolkov/locstat/internal/provider"
	"github.com/avolkov/locstat/internal/report"
	"github.com/avolkov/locstat/internal/server"
)

// App is the main service that orchestrates all components.
type App struct {
	provider interfaces.CommitProvider
	analyzer *analyzer.Analyzer
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// New creates a new application.
func New(ctx contem.Context, cfg config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := app.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize application")
	}

	return app, nil
}

func (a *App) init(ctx contem.Context, cfg config.Config) (err error) {
	respCache := cache.New(cfg.Provider.CacheTTL)

	a.provider, err = provider.New(cfg.Provider, respCache)
	if err != nil {
		return errm.Wrap(err, "failed to create hosting provider")
	}

	a.analyzer, err = analyzer.New(cfg.Analyzer, a.provider)
	if err != nil {
		return errm.Wrap(err, "failed to create analyzer")
	}

	a.server, err = server.New(cfg.Server, a.analyzer)
	if err != nil {
		return errm.Wrap(err, "failed to create API server")
	}
	ctx.Add(a.server.Stop)

	if err := a.cfg.Output.PrepareAndValidate(); err != nil {
		return errm.Wrap(err, "failed to validate output config")
	}

	return nil
}

// StartServer starts the analysis API server.
func (a *App) StartServer(ctx context.Context) error {
	if err := a.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start API server")
	}
	return nil
}

// TestConnection probes the repository and reports the result.
func (a *App) TestConnection(ctx context.Context, repo model.RepoRef) error {
	if err := a.provider.TestConnection(ctx, repo); err != nil {
		return errm.Wrap(err, "connection test failed")
	}
	a.log.Info("connection test passed", "repo", repo.String())
	return nil
}

// RunAnalysis performs one CLI analysis run: analyze the repository,
// print a summary table and write the CSV and chart artifacts.
func (a *App) RunAnalysis(ctx context.Context, repo model.RepoRef, opts analyzer.Options) error {
	result, err := a.analyzer.Analyze(ctx, repo, opts)
	if err != nil {
		return errm.Wrap(err, "failed to analyze repository")
	}

	report.PrintSummary(os.Stdout, result)

	paths, err := report.WriteCSV(result, a.cfg.Output.Dir)
	if err != nil {
		return errm.Wrap(err, "failed to write CSV files")
	}

	if a.cfg.Output.Charts {
		chartPath, err := report.RenderCharts(result, a.cfg.Output.Dir)
		if err != nil {
			return errm.Wrap(err, "failed to render charts")
		}
		paths = append(paths, chartPath)
	}

	a.log.Info("analysis artifacts written", "files", paths)
	return nil
}
