package research

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/aura-backend/internal/domain"
	"github.com/yungbote/aura-backend/internal/platform/dberr"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Project, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	PaperCounts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	Stats(ctx context.Context, tx *gorm.DB, id uuid.UUID) (types.ProjectStats, error)
	DeleteCascade(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	repoLog := baseLog.With("repo", "ProjectRepo")
	return &projectRepo{db: db, log: repoLog}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(project).Error; err != nil {
		return nil, dberr.Map("create project", err)
	}
	return project, nil
}

func (r *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Project
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, dberr.Map("get project", err)
	}
	return &out, nil
}

func (r *projectRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Project
	if err := transaction.WithContext(ctx).
		Order("updated_at DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, dberr.Map("list projects", err)
	}
	return out, nil
}

func (r *projectRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return dberr.Map("update project", res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.Map("update project", gorm.ErrRecordNotFound)
	}
	return nil
}

// Touch bumps updated_at so recently active projects sort first.
func (r *projectRepo) Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().UTC()).Error; err != nil {
		return dberr.Map("touch project", err)
	}
	return nil
}

func (r *projectRepo) PaperCounts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ProjectID uuid.UUID
		N         int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Paper{}).
		Select("project_id, COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error; err != nil {
		return nil, dberr.Map("count papers", err)
	}
	for _, row := range rows {
		out[row.ProjectID] = row.N
	}
	return out, nil
}

func (r *projectRepo) Stats(ctx context.Context, tx *gorm.DB, id uuid.UUID) (types.ProjectStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stats types.ProjectStats
	if err := transaction.WithContext(ctx).Model(&types.Paper{}).Where("project_id = ?", id).Count(&stats.PaperCount).Error; err != nil {
		return stats, dberr.Map("count papers", err)
	}
	if err := transaction.WithContext(ctx).Model(&types.Hypothesis{}).Where("project_id = ?", id).Count(&stats.HypothesisCount).Error; err != nil {
		return stats, dberr.Map("count hypotheses", err)
	}
	return stats, nil
}

// DeleteCascade hard-deletes a project and everything it owns in one
// transaction. Returns ErrNotFound when the project does not exist.
func (r *projectRepo) DeleteCascade(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Transaction(func(t *gorm.DB) error {
		var n int64
		if err := t.Model(&types.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return dberr.Map("delete project", err)
		}
		if n == 0 {
			return dberr.Map("delete project", gorm.ErrRecordNotFound)
		}

		hypothesisIDs := t.Model(&types.Hypothesis{}).Select("id").Where("project_id = ?", id)
		paperIDs := t.Model(&types.Paper{}).Select("id").Where("project_id = ?", id)

		steps := []struct {
			name string
			run  func() error
		}{
			{"chat messages", func() error {
				return t.Where("project_id = ?", id).Delete(&types.ChatMessage{}).Error
			}},
			{"experiments", func() error {
				return t.Where("hypothesis_id IN (?)", hypothesisIDs).Delete(&types.Experiment{}).Error
			}},
			{"hypotheses", func() error {
				return t.Where("project_id = ?", id).Delete(&types.Hypothesis{}).Error
			}},
			{"summaries", func() error {
				return t.Where("paper_id IN (?)", paperIDs).Delete(&types.Summary{}).Error
			}},
			{"papers", func() error {
				return t.Where("project_id = ?", id).Delete(&types.Paper{}).Error
			}},
			{"queries", func() error {
				return t.Where("project_id = ?", id).Delete(&types.ResearchQuery{}).Error
			}},
			{"project", func() error {
				return t.Where("id = ?", id).Delete(&types.Project{}).Error
			}},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				return dberr.Map("delete "+step.name, err)
			}
		}
		return nil
	})
}
