package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrRunNotFound = errors.New("pipeline run not found")

// RunModel is the persisted record of one pipeline run, including the
// final diagram model as a JSON column.
type RunModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	InputPath    string         `gorm:"column:input_path" json:"input_path"`
	ArtifactPath string         `gorm:"column:artifact_path" json:"artifact_path"`
	Status       string         `gorm:"column:status" json:"status"`
	Records      int            `gorm:"column:records" json:"records"`
	Transitions  int            `gorm:"column:transitions" json:"transitions"`
	Labels       int            `gorm:"column:labels" json:"labels"`
	Links        int            `gorm:"column:links" json:"links"`
	Diagram      datatypes.JSON `gorm:"column:diagram" json:"diagram,omitempty"`
	ErrorMessage string         `gorm:"column:error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (RunModel) TableName() string {
	return "pipeline_runs"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RunModel{})
}

func (r *Repository) Create(ctx context.Context, run *RunModel) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Complete marks a run finished and stores its counts and diagram.
func (r *Repository) Complete(ctx context.Context, run *RunModel, diagram datatypes.JSON) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":        StatusCompleted,
		"artifact_path": run.ArtifactPath,
		"records":       run.Records,
		"transitions":   run.Transitions,
		"labels":        run.Labels,
		"links":         run.Links,
		"diagram":       diagram,
		"completed_at":  now,
	}
	return r.db.WithContext(ctx).Model(&RunModel{}).Where("id = ?", run.ID).Updates(updates).Error
}

func (r *Repository) Fail(ctx context.Context, runID uuid.UUID, message string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":        StatusFailed,
		"error_message": message,
		"completed_at":  now,
	}
	return r.db.WithContext(ctx).Model(&RunModel{}).Where("id = ?", runID).Updates(updates).Error
}

func (r *Repository) Get(ctx context.Context, runID uuid.UUID) (*RunModel, error) {
	var run RunModel
	result := r.db.WithContext(ctx).First(&run, "id = ?", runID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	return &run, result.Error
}

func (r *Repository) List(ctx context.Context, limit int) ([]RunModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []RunModel
	result := r.db.WithContext(ctx).
		Omit("diagram").
		Order("created_at desc").
		Limit(limit).
		Find(&runs)
	return runs, result.Error
}
