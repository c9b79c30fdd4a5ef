package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type ResearchQueryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, query *types.ResearchQuery) (*types.ResearchQuery, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ResearchQuery, error)
}

type researchQueryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResearchQueryRepo(db *gorm.DB, baseLog *logger.Logger) ResearchQueryRepo {
	repoLog := baseLog.With("repo", "ResearchQueryRepo")
	return &researchQueryRepo{db: db, log: repoLog}
}

func (r *researchQueryRepo) Create(ctx context.Context, tx *gorm.DB, query *types.ResearchQuery) (*types.ResearchQuery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(query).Error; err != nil {
		return nil, dberr.Map("create research query", err)
	}
	return query, nil
}

func (r *researchQueryRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ResearchQuery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ResearchQuery
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberr.Map("list research queries", err)
	}
	return out, nil
}
