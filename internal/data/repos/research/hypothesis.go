package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type HypothesisRepo interface {
	Create(ctx context.Context, tx *gorm.DB, hypothesis *types.Hypothesis) (*types.Hypothesis, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Hypothesis, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.Hypothesis, error)
}

type hypothesisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHypothesisRepo(db *gorm.DB, baseLog *logger.Logger) HypothesisRepo {
	repoLog := baseLog.With("repo", "HypothesisRepo")
	return &hypothesisRepo{db: db, log: repoLog}
}

func (r *hypothesisRepo) Create(ctx context.Context, tx *gorm.DB, hypothesis *types.Hypothesis) (*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Omit("Experiments").Create(hypothesis).Error; err != nil {
		return nil, dberr.Map("create hypothesis", err)
	}
	return hypothesis, nil
}

// GetByID loads a hypothesis with its experiments.
func (r *hypothesisRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Hypothesis
	if err := transaction.WithContext(ctx).
		Preload("Experiments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&out).Error; err != nil {
		return nil, dberr.Map("get hypothesis", err)
	}
	return &out, nil
}

// ListByProject returns hypotheses newest first. limit <= 0 means all.
func (r *hypothesisRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Hypothesis
	if err := q.Find(&out).Error; err != nil {
		return nil, dberr.Map("list hypotheses", err)
	}
	return out, nil
}
