package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"github.com/Kevinm360/Sankey-Diagram/pkg/common/kafka"
	"github.com/Kevinm360/Sankey-Diagram/pkg/common/logger"
	"github.com/Kevinm360/Sankey-Diagram/pkg/journey"
	"github.com/Kevinm360/Sankey-Diagram/pkg/records"
	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey"
	"github.com/Kevinm360/Sankey-Diagram/pkg/sankey/render"
)

// Source is the record stream a run consumes. CSVSource is the
// production implementation; tests feed slices through a stub.
type Source interface {
	Each(fn func(records.ConditionRecord) error) error
}

// RunReport summarizes one completed pipeline run.
type RunReport struct {
	RunID        uuid.UUID     `json:"run_id"`
	Records      int           `json:"records"`
	Transitions  int           `json:"transitions"`
	Observations int           `json:"observations"`
	Labels       int           `json:"labels"`
	Links        int           `json:"links"`
	ArtifactPath string        `json:"artifact_path"`
	Duration     time.Duration `json:"duration"`
}

const latestDiagramKey = "journey:diagram:latest"

// Service drives the batch pipeline: record source, transition
// extraction, aggregation, diagram build, render. Each stage fully
// completes before the next starts; the first error aborts the run.
// Repository, cache, and event producer are optional service-mode
// collaborators.
type Service struct {
	repo        *Repository
	cache       *redis.Client
	producer    *kafka.Producer
	cacheTTL    time.Duration
	newSource   func(Config) Source
	newRenderer func(Config) render.Renderer
}

type Option func(*Service)

func WithRepository(repo *Repository) Option {
	return func(s *Service) { s.repo = repo }
}

func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = client
		s.cacheTTL = ttl
	}
}

func WithProducer(producer *kafka.Producer) Option {
	return func(s *Service) { s.producer = producer }
}

// WithSource replaces the record source factory; used by tests.
func WithSource(factory func(Config) Source) Option {
	return func(s *Service) { s.newSource = factory }
}

// WithRenderer replaces the renderer factory; used by tests.
func WithRenderer(factory func(Config) render.Renderer) Option {
	return func(s *Service) { s.newRenderer = factory }
}

func NewService(opts ...Option) *Service {
	svc := &Service{
		newSource: func(cfg Config) Source {
			return records.NewCSVSource(cfg.InputPath, cfg.Columns)
		},
		newRenderer: func(cfg Config) render.Renderer {
			return render.NewHTMLRenderer(cfg.OutputPath)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Run executes the full pipeline for one configuration. The run aborts
// on the first source, build, or render error; post-render bookkeeping
// (run history, cache, events) is logged but never fails a finished run.
func (s *Service) Run(ctx context.Context, cfg Config) (RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return RunReport{}, err
	}
	cfg = cfg.withDefaults()

	report := RunReport{RunID: uuid.New(), ArtifactPath: cfg.OutputPath}
	started := time.Now()

	if s.repo != nil {
		if err := s.repo.Create(ctx, &RunModel{
			ID:        report.RunID,
			InputPath: cfg.InputPath,
			Status:    StatusRunning,
			CreatedAt: started.UTC(),
		}); err != nil {
			return RunReport{}, err
		}
	}

	diagram, err := s.execute(ctx, cfg, &report)
	if err != nil {
		s.markFailed(ctx, report.RunID, err)
		return RunReport{}, err
	}
	report.Duration = time.Since(started)

	s.recordSuccess(ctx, cfg, report, diagram)
	return report, nil
}

func (s *Service) execute(ctx context.Context, cfg Config, report *RunReport) (*sankey.Diagram, error) {
	extractor := journey.NewExtractor()
	err := s.newSource(cfg).Each(func(record records.ConditionRecord) error {
		extractor.Consume(record)
		report.Records++
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := extractor.Log()
	report.Transitions = log.Len()
	for _, key := range log.Keys() {
		report.Observations += len(log.Observations(key))
	}

	stats := journey.Aggregate(log)
	diagram := sankey.NewBuilder(
		sankey.WithTitle(cfg.Title),
		sankey.WithPalette(cfg.Palette),
	).Build(stats)
	report.Labels = len(diagram.Labels)
	report.Links = len(diagram.Links)

	if err := s.newRenderer(cfg).Render(ctx, diagram); err != nil {
		return nil, err
	}
	return diagram, nil
}

func (s *Service) markFailed(ctx context.Context, runID uuid.UUID, cause error) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Fail(ctx, runID, cause.Error()); err != nil {
		logger.Log.WithError(err).Error("Failed to record failed run")
	}
}

func (s *Service) recordSuccess(ctx context.Context, cfg Config, report RunReport, diagram *sankey.Diagram) {
	encoded, err := json.Marshal(diagram)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to encode diagram for bookkeeping")
		return
	}

	if s.repo != nil {
		model := &RunModel{
			ID:           report.RunID,
			InputPath:    cfg.InputPath,
			ArtifactPath: report.ArtifactPath,
			Records:      report.Records,
			Transitions:  report.Transitions,
			Labels:       report.Labels,
			Links:        report.Links,
		}
		if err := s.repo.Complete(ctx, model, datatypes.JSON(encoded)); err != nil {
			logger.Log.WithError(err).Error("Failed to record completed run")
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, latestDiagramKey, encoded, s.cacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to cache latest diagram")
		}
	}

	if s.producer != nil {
		err := s.producer.PublishEvent(ctx, kafka.EventRunCompleted, "journey-pipeline", map[string]interface{}{
			"run_id":        report.RunID.String(),
			"artifact_path": report.ArtifactPath,
			"records":       report.Records,
			"transitions":   report.Transitions,
			"links":         report.Links,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to publish run completed event")
		}
	}
}
