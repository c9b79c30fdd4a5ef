package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime;index" json:"updated_at"`
}

func (Project) TableName() string { return "project" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectStats are derived counts returned alongside a project.
type ProjectStats struct {
	PaperCount      int64 `json:"paper_count"`
	HypothesisCount int64 `json:"hypothesis_count"`
}
