// Package server exposes the analysis API: start a run, poll its status,
// fetch its results. Analyses execute as background jobs so the client
// can poll instead of holding a request open for minutes.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"

	"github.com/avolkov/locstat/internal/analyzer"
	"github.com/avolkov/locstat/internal/jobs"
	"github.com/avolkov/locstat/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server handles analysis API requests.
type Server struct {
	analyzer *analyzer.Analyzer
	manager  *jobs.Manager
	config   Config
	log      logze.Logger
	server   *servex.Server
}

// analyzeRequest is the body of POST /api/analyze.
type analyzeRequest struct {
	Repos          []model.RepoRef `json:"repos"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	GroupBy        model.GroupBy   `json:"group_by"`
	FocusIdentity  string          `json:"focus_identity"`
	FileExtensions []string        `json:"file_extensions"`
	IgnoreMerges   bool            `json:"ignore_merges"`
}

// New creates a new analysis API server.
func New(cfg Config, an *analyzer.Analyzer) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	log := logze.With("component", "server")

	manager, err := jobs.NewManager(cfg.MaxConcurrentJobs)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create job manager")
	}

	srv, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create server")
	}

	h := &Server{
		analyzer: an,
		manager:  manager,
		config:   cfg,
		log:      log,
		server:   srv,
	}

	srv.HandleFunc("/api/analyze", h.handleAnalyze)
	srv.HandleFunc("/api/jobs", h.handleJobs)
	srv.HandleFunc("/api/jobs/results", h.handleJobResults)
	srv.HandleFunc("/api/test-connection", h.handleTestConnection)

	return h, nil
}

// Start starts the API server.
func (h *Server) Start(ctx context.Context) error {
	if h.config.EnableHTTPS {
		return h.server.StartHTTPS(h.config.Address)
	}
	return h.server.StartHTTP(h.config.Address)
}

// Stop stops the API server and the job manager.
func (h *Server) Stop(ctx context.Context) error {
	if err := h.manager.Close(ctx); err != nil {
		h.log.Error("failed to close job manager", "error", err)
	}
	return h.server.Shutdown(ctx)
}

// handleAnalyze starts a background analysis job over one or more
// repositories and returns its id for polling.
func (h *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	if r.Method != http.MethodPost {
		ctx.Response(http.StatusMethodNotAllowed)
		return
	}

	body, err := ctx.Read()
	if err != nil {
		ctx.BadRequest(err, "failed to read request body")
		return
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		ctx.BadRequest(err, "invalid JSON body")
		return
	}
	if len(req.Repos) == 0 {
		ctx.BadRequest(erro.New("empty repos"), "at least one repository is required")
		return
	}

	start, end, err := analyzer.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		ctx.BadRequest(err, "invalid date range")
		return
	}

	job, err := h.manager.Submit(context.WithoutCancel(r.Context()), h.runner(req, start.UTC(), end.UTC()))
	if err != nil {
		ctx.InternalServerError(err, "failed to schedule analysis")
		return
	}

	h.log.Info("analysis job scheduled", "job_id", job.ID(), "repos", len(req.Repos))
	ctx.Response(http.StatusAccepted, map[string]string{"job_id": job.ID()})
}

// runner builds the background work for one analyze request: each
// repository is analyzed independently and contributes an equal share of
// the job progress.
func (h *Server) runner(req analyzeRequest, start, end time.Time) jobs.Runner {
	return func(ctx context.Context, job *jobs.Job) ([]*model.Report, error) {
		reports := make([]*model.Report, 0, len(req.Repos))

		for i, repo := range req.Repos {
			job.UpdateProgress(i*100/len(req.Repos), "analyzing "+repo.String())

			opts := analyzer.Options{
				StartDate:      start,
				EndDate:        end,
				GroupBy:        req.GroupBy,
				FocusIdentity:  req.FocusIdentity,
				FileExtensions: req.FileExtensions,
				IgnoreMerges:   req.IgnoreMerges,
			}
			report, err := h.analyzer.Analyze(ctx, repo, opts)
			if err != nil {
				return nil, erro.Wrap(err, "failed to analyze "+repo.String())
			}
			reports = append(reports, report)
		}

		return reports, nil
	}
}

// handleJobs returns the status of one job (?id=) or of all known jobs.
func (h *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	id := r.URL.Query().Get("id")
	if id == "" {
		ctx.Response(http.StatusOK, h.manager.List())
		return
	}

	job, ok := h.manager.Get(id)
	if !ok {
		ctx.NotFound(erro.New("unknown job id"), "unknown job id")
		return
	}
	ctx.Response(http.StatusOK, job.Snapshot())
}

// handleJobResults returns the reports of a completed job.
func (h *Server) handleJobResults(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	id := r.URL.Query().Get("id")
	if id == "" {
		ctx.BadRequest(erro.New("missing job id"), "job id is required")
		return
	}

	job, ok := h.manager.Get(id)
	if !ok {
		ctx.NotFound(erro.New("unknown job id"), "unknown job id")
		return
	}

	reports, ok := job.Reports()
	if !ok {
		ctx.Response(http.StatusConflict, job.Snapshot())
		return
	}
	ctx.Response(http.StatusOK, map[string]any{
		"status":  job.Snapshot(),
		"reports": reports,
	})
}

// handleTestConnection probes a repository with the configured provider,
// so a user can validate credentials before starting a long analysis.
func (h *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	repo := model.RepoRef{
		Workspace: r.URL.Query().Get("workspace"),
		Slug:      r.URL.Query().Get("slug"),
	}
	if repo.Workspace == "" || repo.Slug == "" {
		ctx.BadRequest(erro.New("missing repo reference"), "workspace and slug are required")
		return
	}

	if err := h.analyzer.TestConnection(r.Context(), repo); err != nil {
		if errors.Is(err, model.ErrAuth) {
			ctx.Unauthorized(err, "credentials rejected by the hosting server")
			return
		}
		ctx.BadRequest(err, "connection test failed")
		return
	}
	ctx.Response(http.StatusOK, map[string]string{"status": "ok", "repo": repo.String()})
}
