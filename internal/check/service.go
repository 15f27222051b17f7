// Package check runs one originality check end to end: fetch, load, score,
// report.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/corpus"
	"github.com/RishiKendai/aegis-origin/internal/fetch"
	"github.com/RishiKendai/aegis-origin/internal/metrics"
	"github.com/RishiKendai/aegis-origin/internal/models"
	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/RishiKendai/aegis-origin/internal/report"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ReportWriter persists check reports.
type ReportWriter interface {
	UpdateReport(ctx context.Context, report *models.CheckReport) error
}

// FileResultWriter persists per-file results.
type FileResultWriter interface {
	InsertFileResults(ctx context.Context, records []*models.FileResultRecord) error
}

// ReportPublisher announces finished reports.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *models.CheckReport) error
}

// StatusFunc records the current phase of a check.
type StatusFunc func(ctx context.Context, checkID string, phase plagiarism.Phase) error

// Settings are the static inputs of every check.
type Settings struct {
	ReferenceDir   string
	WorkspaceDir   string
	MinTokenLength int
}

// Outcome is the result of a successful check.
type Outcome struct {
	CheckID   string
	TargetDir string
	Summary   *plagiarism.RunSummary
	Skipped   int
	Elapsed   time.Duration
}

type Service struct {
	settings  Settings
	fetcher   fetch.Fetcher
	loader    *corpus.Loader
	pool      *plagiarism.WorkerPool
	reports   ReportWriter
	files     FileResultWriter
	publisher ReportPublisher
	status    StatusFunc
}

// NewService creates a service. pool may be nil to score sequentially.
func NewService(settings Settings, fetcher fetch.Fetcher, loader *corpus.Loader, pool *plagiarism.WorkerPool) *Service {
	return &Service{
		settings: settings,
		fetcher:  fetcher,
		loader:   loader,
		pool:     pool,
	}
}

// WithPersistence stores reports and file results after every check.
func (s *Service) WithPersistence(reports ReportWriter, files FileResultWriter) *Service {
	s.reports = reports
	s.files = files
	return s
}

func (s *Service) WithPublisher(publisher ReportPublisher) *Service {
	s.publisher = publisher
	return s
}

func (s *Service) WithStatus(status StatusFunc) *Service {
	s.status = status
	return s
}

// Execute runs a check. Fatal conditions (fetch failure, empty target or
// reference set) are returned as errors after the failed report is stored.
func (s *Service) Execute(ctx context.Context, req *models.CheckRequest) (*Outcome, error) {
	if req.CheckID == "" {
		req.CheckID = uuid.NewString()
	}
	if err := models.ValidateCheckID(req.CheckID); err != nil {
		return nil, err
	}
	if (req.RepoURL == "") == (req.TargetDir == "") {
		return nil, fmt.Errorf("check %s: exactly one of repository url and target directory is required", req.CheckID)
	}

	run := plagiarism.NewRun(req.CheckID, func(phase plagiarism.Phase) {
		if s.status == nil {
			return
		}
		if err := s.status(ctx, req.CheckID, phase); err != nil {
			log.Warn().Err(err).Str("checkId", req.CheckID).Msg("Failed to update check status")
		}
	})

	checkReport := &models.CheckReport{
		CheckID:   req.CheckID,
		RepoURL:   req.RepoURL,
		TargetDir: req.TargetDir,
		Status:    models.StatusPending,
		Phase:     string(plagiarism.PhaseIdle),
	}
	if err := s.saveReport(ctx, checkReport); err != nil {
		log.Error().Err(err).Str("checkId", req.CheckID).Msg("Failed to create pending report")
	}

	outcome, err := s.execute(ctx, run, req, checkReport)
	if err != nil {
		s.fail(run, checkReport, err)
		return nil, err
	}
	return outcome, nil
}

func (s *Service) execute(ctx context.Context, run *plagiarism.Run, req *models.CheckRequest, checkReport *models.CheckReport) (*Outcome, error) {
	targetDir := req.TargetDir
	if req.RepoURL != "" {
		if err := run.Advance(plagiarism.PhaseFetch); err != nil {
			return nil, err
		}
		dir, cleanup, err := s.fetchTarget(ctx, req)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		targetDir = dir
	}

	target, reference, skipped, err := s.loadCorpora(ctx, run, targetDir)
	if err != nil {
		return nil, err
	}
	checkReport.SkippedFiles = skipped

	engine := plagiarism.NewEngine(s.pool, plagiarism.EngineOptions{
		MinTokenLength: s.settings.MinTokenLength,
		OnComparison:   report.LogComparison,
		OnFileResult:   report.LogFileResult,
	})
	summary, err := engine.Analyze(ctx, run, target, reference)
	if err != nil {
		return nil, err
	}

	if err := run.Advance(plagiarism.PhaseReport); err != nil {
		return nil, err
	}

	metrics.PairsScored.Add(float64(summary.PairsScored))
	metrics.ScoringDuration.Observe(summary.ElapsedSeconds())
	metrics.AverageSimilarity.Observe(summary.AverageSimilarity)

	completedAt := time.Now()
	checkReport.Status = models.StatusCompleted
	checkReport.Phase = string(plagiarism.PhaseDone)
	checkReport.AverageSimilarity = summary.AverageSimilarity
	checkReport.TotalFiles = summary.TotalFiles
	checkReport.ReferenceFiles = summary.ReferenceFiles
	checkReport.VocabularySize = summary.VocabularySize
	checkReport.PairsScored = summary.PairsScored
	checkReport.ElapsedSeconds = summary.ElapsedSeconds()
	checkReport.CompletedAt = &completedAt

	if err := s.persist(ctx, checkReport, summary); err != nil {
		return nil, err
	}

	if err := run.Advance(plagiarism.PhaseDone); err != nil {
		return nil, err
	}

	elapsed := run.Elapsed()
	metrics.ChecksTotal.WithLabelValues(models.StatusCompleted).Inc()
	metrics.CheckDuration.Observe(elapsed.Seconds())
	report.LogSummary(req.CheckID, summary, elapsed.Seconds())

	return &Outcome{
		CheckID:   req.CheckID,
		TargetDir: targetDir,
		Summary:   summary,
		Skipped:   skipped,
		Elapsed:   elapsed,
	}, nil
}

// fetchTarget clones the repository and returns the directory together with
// a cleanup func. Only a temporary directory created here is ever removed;
// an explicit destination is left in place.
func (s *Service) fetchTarget(ctx context.Context, req *models.CheckRequest) (string, func(), error) {
	noop := func() {}

	if req.Destination != "" {
		if err := s.fetcher.Fetch(ctx, req.RepoURL, req.Destination); err != nil {
			return "", noop, err
		}
		return req.Destination, noop, nil
	}

	if err := os.MkdirAll(s.settings.WorkspaceDir, 0o755); err != nil {
		return "", noop, fmt.Errorf("failed to create workspace: %w", err)
	}
	dir, err := os.MkdirTemp(s.settings.WorkspaceDir, "check-*")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create clone directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Failed to remove clone")
		}
	}
	log.Debug().Str("checkId", req.CheckID).Str("dir", dir).Msg("Created clone directory")

	if err := s.fetcher.Fetch(ctx, req.RepoURL, dir); err != nil {
		cleanup()
		return "", noop, err
	}
	return dir, cleanup, nil
}

// loadCorpora loads both sides concurrently; each side keeps its own order.
func (s *Service) loadCorpora(ctx context.Context, run *plagiarism.Run, targetDir string) ([]plagiarism.Document, []plagiarism.Document, int, error) {
	var target, reference *corpus.Result

	g, gctx := errgroup.WithContext(ctx)

	if err := run.Advance(plagiarism.PhaseLoadTarget); err != nil {
		return nil, nil, 0, err
	}
	g.Go(func() error {
		res, err := s.loader.Load(gctx, targetDir)
		if err != nil {
			return fmt.Errorf("failed to load target %s: %w", targetDir, err)
		}
		target = res
		return nil
	})

	if err := run.Advance(plagiarism.PhaseLoadReference); err != nil {
		// the target goroutine still has to finish before returning
		_ = g.Wait()
		return nil, nil, 0, err
	}
	g.Go(func() error {
		res, err := s.loader.Load(gctx, s.settings.ReferenceDir)
		if err != nil {
			return fmt.Errorf("failed to load reference corpus %s: %w", s.settings.ReferenceDir, err)
		}
		reference = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}

	metrics.FilesLoaded.WithLabelValues("target").Add(float64(len(target.Documents)))
	metrics.FilesLoaded.WithLabelValues("reference").Add(float64(len(reference.Documents)))
	metrics.FilesSkipped.WithLabelValues("target").Add(float64(len(target.Skipped)))
	metrics.FilesSkipped.WithLabelValues("reference").Add(float64(len(reference.Skipped)))

	log.Info().
		Str("checkId", run.ID).
		Str("targetDir", targetDir).
		Str("referenceDir", s.settings.ReferenceDir).
		Int("targetFiles", len(target.Documents)).
		Int("referenceFiles", len(reference.Documents)).
		Msg("Corpora loaded")

	if len(target.Documents) == 0 {
		return nil, nil, 0, fmt.Errorf("%w: no files matched under target directory %s", plagiarism.ErrNoTargetData, targetDir)
	}
	if len(reference.Documents) == 0 {
		return nil, nil, 0, fmt.Errorf("%w: no files matched under reference directory %s", plagiarism.ErrNoReferenceData, s.settings.ReferenceDir)
	}

	return target.Documents, reference.Documents, len(target.Skipped) + len(reference.Skipped), nil
}

func (s *Service) persist(ctx context.Context, checkReport *models.CheckReport, summary *plagiarism.RunSummary) error {
	if s.files != nil {
		records := make([]*models.FileResultRecord, 0, len(summary.Files))
		for _, file := range summary.Files {
			records = append(records, &models.FileResultRecord{
				CheckID:       checkReport.CheckID,
				TargetPath:    file.TargetPath,
				MaxSimilarity: file.MaxSimilarity,
				BestMatch:     file.BestMatch,
			})
		}
		if err := s.files.InsertFileResults(ctx, records); err != nil {
			return err
		}
	}

	if err := s.saveReport(ctx, checkReport); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, checkReport); err != nil {
			log.Warn().Err(err).Str("checkId", checkReport.CheckID).Msg("Failed to publish report")
		}
	}
	return nil
}

func (s *Service) fail(run *plagiarism.Run, checkReport *models.CheckReport, err error) {
	run.Fail(err)
	metrics.ChecksTotal.WithLabelValues(models.StatusFailed).Inc()

	var fetchErr *fetch.FetchError
	event := log.Error().Err(err).Str("checkId", run.ID)
	if errors.As(err, &fetchErr) {
		event = event.Str("repoUrl", fetchErr.URL)
	}
	event.Msg("Check failed")

	completedAt := time.Now()
	checkReport.Status = models.StatusFailed
	checkReport.Phase = string(plagiarism.PhaseFailed)
	checkReport.Error = err.Error()
	checkReport.CompletedAt = &completedAt

	// the run context may already be cancelled
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if saveErr := s.saveReport(saveCtx, checkReport); saveErr != nil {
		log.Error().Err(saveErr).Str("checkId", run.ID).Msg("Failed to store failed report")
	}
}

func (s *Service) saveReport(ctx context.Context, checkReport *models.CheckReport) error {
	if s.reports == nil {
		return nil
	}
	return s.reports.UpdateReport(ctx, checkReport)
}
