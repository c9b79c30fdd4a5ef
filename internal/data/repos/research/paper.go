package research

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type PaperRepo interface {
	Create(ctx context.Context, tx *gorm.DB, papers []*types.Paper) ([]*types.Paper, error)
	GetByID(ctx context.Context, tx *gorm.DB, projectID, paperID uuid.UUID) (*types.Paper, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, paperIDs []uuid.UUID) ([]*types.Paper, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.Paper, error)
	FindByExternalID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, source, externalID string) (*types.Paper, error)
	Delete(ctx context.Context, tx *gorm.DB, projectID, paperID uuid.UUID) error
}

type paperRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaperRepo(db *gorm.DB, baseLog *logger.Logger) PaperRepo {
	repoLog := baseLog.With("repo", "PaperRepo")
	return &paperRepo{db: db, log: repoLog}
}

func (r *paperRepo) Create(ctx context.Context, tx *gorm.DB, papers []*types.Paper) ([]*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(papers) == 0 {
		return []*types.Paper{}, nil
	}
	if err := transaction.WithContext(ctx).Omit("Summary").Create(&papers).Error; err != nil {
		return nil, dberr.Map("create papers", err)
	}
	return papers, nil
}

func (r *paperRepo) GetByID(ctx context.Context, tx *gorm.DB, projectID, paperID uuid.UUID) (*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Paper
	if err := transaction.WithContext(ctx).
		Preload("Summary").
		Where("id = ? AND project_id = ?", paperID, projectID).
		First(&out).Error; err != nil {
		return nil, dberr.Map("get paper", err)
	}
	return &out, nil
}

// GetByIDs returns the papers of projectID among paperIDs, in creation order.
func (r *paperRepo) GetByIDs(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, paperIDs []uuid.UUID) ([]*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Paper
	if len(paperIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Summary").
		Where("project_id = ? AND id IN ?", projectID, paperIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, dberr.Map("get papers", err)
	}
	return out, nil
}

// ListByProject returns the project's papers newest first. limit <= 0 means all.
func (r *paperRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Summary").
		Where("project_id = ?", projectID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Paper
	if err := q.Find(&out).Error; err != nil {
		return nil, dberr.Map("list papers", err)
	}
	return out, nil
}

func (r *paperRepo) FindByExternalID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, source, externalID string) (*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Paper
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND source = ? AND external_id = ?", projectID, source, externalID).
		First(&out).Error; err != nil {
		return nil, dberr.Map("find paper", err)
	}
	return &out, nil
}

// Delete removes a paper and its summary.
func (r *paperRepo) Delete(ctx context.Context, tx *gorm.DB, projectID, paperID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		res := t.Where("id = ? AND project_id = ?", paperID, projectID).Delete(&types.Paper{})
		if res.Error != nil {
			return dberr.Map("delete paper", res.Error)
		}
		if res.RowsAffected == 0 {
			return dberr.Map("delete paper", gorm.ErrRecordNotFound)
		}
		if err := t.Where("paper_id = ?", paperID).Delete(&types.Summary{}).Error; err != nil {
			return dberr.Map("delete summary", err)
		}
		return nil
	})
}
