package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResearchQuery records a project-scoped paper search.
type ResearchQuery struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"project_id"`
	QueryText   string                      `gorm:"column:query_text;type:text;not null" json:"query_text"`
	Sources     datatypes.JSONSlice[string] `gorm:"column:sources;not null" json:"sources"`
	ResultCount int                         `gorm:"column:result_count;not null;default:0" json:"result_count"`
	CreatedAt   time.Time                   `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (ResearchQuery) TableName() string { return "research_query" }

func (q *ResearchQuery) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Sources == nil {
		q.Sources = datatypes.JSONSlice[string]{}
	}
	return nil
}
