package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type ExperimentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, experiment *types.Experiment) (*types.Experiment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Experiment, error)
	ListByHypothesisIDs(ctx context.Context, tx *gorm.DB, hypothesisIDs []uuid.UUID) ([]*types.Experiment, error)
}

type experimentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	repoLog := baseLog.With("repo", "ExperimentRepo")
	return &experimentRepo{db: db, log: repoLog}
}

func (r *experimentRepo) Create(ctx context.Context, tx *gorm.DB, experiment *types.Experiment) (*types.Experiment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(experiment).Error; err != nil {
		return nil, dberr.Map("create experiment", err)
	}
	return experiment, nil
}

func (r *experimentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Experiment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Experiment
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, dberr.Map("get experiment", err)
	}
	return &out, nil
}

func (r *experimentRepo) ListByHypothesisIDs(ctx context.Context, tx *gorm.DB, hypothesisIDs []uuid.UUID) ([]*types.Experiment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Experiment
	if len(hypothesisIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("hypothesis_id IN ?", hypothesisIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, dberr.Map("list experiments", err)
	}
	return out, nil
}
