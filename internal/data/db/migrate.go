package db

import (
	"fmt"

	types "github.com/yungbote/aura-backend/internal/domain"
	"gorm.io/gorm"
)

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("Database migrated")
	return nil
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsurePaperIndexes(db)
}

// EnsurePaperIndexes adds the partial unique index that dedupes imported
// papers per project. Manual papers (empty external_id) are exempt.
func EnsurePaperIndexes(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	stmt := `
CREATE UNIQUE INDEX IF NOT EXISTS idx_paper_project_source_external
ON paper (project_id, source, external_id)
WHERE external_id <> ''`
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("ensure paper indexes: %w", err)
	}
	return nil
}
