package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Evidence maps a paper id to the passage that supports a hypothesis.
type Evidence map[string]string

type Hypothesis struct {
	ID                 uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID          uuid.UUID                    `gorm:"type:uuid;not null;index" json:"project_id"`
	ResearchQuestion   string                       `gorm:"column:research_question;type:text;not null" json:"research_question"`
	HypothesisText     string                       `gorm:"column:hypothesis_text;type:text;not null" json:"hypothesis_text"`
	Reasoning          string                       `gorm:"column:reasoning;type:text;not null;default:''" json:"reasoning"`
	ConfidenceScore    float64                      `gorm:"column:confidence_score;not null;default:0" json:"confidence_score"`
	SupportingEvidence datatypes.JSONType[Evidence] `gorm:"column:supporting_evidence;not null" json:"supporting_evidence"`
	CreatedAt          time.Time                    `gorm:"not null;autoCreateTime;index" json:"created_at"`

	Experiments []*Experiment `gorm:"foreignKey:HypothesisID;references:ID" json:"experiments,omitempty"`
}

func (Hypothesis) TableName() string { return "hypothesis" }

func (h *Hypothesis) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.SupportingEvidence.Data() == nil {
		h.SupportingEvidence = datatypes.NewJSONType(Evidence{})
	}
	return nil
}
