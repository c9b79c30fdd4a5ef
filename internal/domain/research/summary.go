package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Summary struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	PaperID     uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_paper_summary_paper" json:"paper_id"`
	SummaryText string                      `gorm:"column:summary_text;type:text;not null" json:"summary_text"`
	KeyFindings datatypes.JSONSlice[string] `gorm:"column:key_findings;not null" json:"key_findings"`
	CreatedAt   time.Time                   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Summary) TableName() string { return "paper_summary" }

func (s *Summary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.KeyFindings == nil {
		s.KeyFindings = datatypes.JSONSlice[string]{}
	}
	return nil
}
