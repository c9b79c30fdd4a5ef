package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Variables struct {
	Independent []string `json:"independent"`
	Dependent   []string `json:"dependent"`
}

type Experiment struct {
	ID               uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	HypothesisID     uuid.UUID                     `gorm:"type:uuid;not null;index" json:"hypothesis_id"`
	Title            string                        `gorm:"column:title;not null" json:"title"`
	Methodology      string                        `gorm:"column:methodology;type:text;not null;default:''" json:"methodology"`
	Variables        datatypes.JSONType[Variables] `gorm:"column:variables;not null" json:"variables"`
	Controls         string                        `gorm:"column:controls;type:text;not null;default:''" json:"controls"`
	ExpectedOutcomes string                        `gorm:"column:expected_outcomes;type:text;not null;default:''" json:"expected_outcomes"`
	Limitations      string                        `gorm:"column:limitations;type:text;not null;default:''" json:"limitations"`
	CreatedAt        time.Time                     `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Experiment) TableName() string { return "experiment_design" }

func (e *Experiment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	v := e.Variables.Data()
	if v.Independent == nil || v.Dependent == nil {
		if v.Independent == nil {
			v.Independent = []string{}
		}
		if v.Dependent == nil {
			v.Dependent = []string{}
		}
		e.Variables = datatypes.NewJSONType(v)
	}
	return nil
}
