package research

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type SummaryRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, summary *types.Summary) (*types.Summary, error)
	GetByPaperID(ctx context.Context, tx *gorm.DB, paperID uuid.UUID) (*types.Summary, error)
}

type summaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	repoLog := baseLog.With("repo", "SummaryRepo")
	return &summaryRepo{db: db, log: repoLog}
}

// Upsert writes the summary for summary.PaperID, replacing any previous one,
// and returns the stored row.
func (r *summaryRepo) Upsert(ctx context.Context, tx *gorm.DB, summary *types.Summary) (*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	summary.UpdatedAt = time.Now().UTC()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paper_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"summary_text", "key_findings", "updated_at"}),
		}).
		Create(summary).Error; err != nil {
		return nil, dberr.Map("upsert summary", err)
	}
	return r.GetByPaperID(ctx, transaction, summary.PaperID)
}

func (r *summaryRepo) GetByPaperID(ctx context.Context, tx *gorm.DB, paperID uuid.UUID) (*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Summary
	if err := transaction.WithContext(ctx).Where("paper_id = ?", paperID).First(&out).Error; err != nil {
		return nil, dberr.Map("get summary", err)
	}
	return &out, nil
}
